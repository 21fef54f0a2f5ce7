package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/looper/internal/shared"
	"github.com/desertthunder/looper/internal/tasks"
	"github.com/desertthunder/looper/internal/ui"
	"github.com/urfave/cli/v3"
)

// Batch schedules every plan file given as an argument.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one plan file", shared.ErrMissingArgument)
	}

	mode, err := r.mode(cmd)
	if err != nil {
		return err
	}

	record := cmd.Bool("record")
	curator, err := r.curator(record)
	if err != nil {
		return err
	}

	opts := tasks.BatchOpts{
		Mode:       mode,
		Seed:       r.seed(cmd),
		NumWorkers: r.config.Batch.Workers,
		Format:     r.format(cmd),
		OutputDir:  cmd.String("dir"),
		Record:     record,
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}

	r.logger.Info("starting batch", "plans", len(paths), "workers", opts.NumWorkers, "mode", mode)

	progressCh, done := r.progress()
	result, err := curator.GenerateBatch(ctx, progressCh, paths, opts)
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	if cmd.Bool("json") {
		if jsonErr := r.writeJSON(result, true); jsonErr != nil {
			return jsonErr
		}
	} else if renderErr := r.writeRendered(ui.RenderBatch(result)); renderErr != nil {
		return renderErr
	}
	return err
}
