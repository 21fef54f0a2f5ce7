package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/looper/internal/formatter"
	"github.com/desertthunder/looper/internal/shared"
	"github.com/desertthunder/looper/internal/spacing"
	"github.com/desertthunder/looper/internal/ui"
	"github.com/urfave/cli/v3"
)

// Check reads an exported text playlist and verifies its spacing.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: playlist file path", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	labels, err := formatter.ReadText(f)
	if err != nil {
		return err
	}

	gap := r.config.Scheduler.FallbackGap
	if cmd.IsSet("gap") {
		gap = int(cmd.Int("gap"))
	}

	s := spacing.Schedule[string](labels)
	smallest := s.MinGap()
	if err := s.Validate(gap); err != nil {
		r.writePlain("%s %s: %v\n", ui.Error("✗"), path, err)
		return cli.Exit("", 1)
	}

	if smallest < 0 {
		return r.writePlain("%s %s: %d entries, no repeats\n", ui.Success("✓"), path, len(labels))
	}
	return r.writePlain("%s %s: %d entries, smallest gap %d (required %d)\n", ui.Success("✓"), path, len(labels), smallest, gap)
}
