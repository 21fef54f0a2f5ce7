package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/looper/internal/formatter"
	"github.com/desertthunder/looper/internal/tasks"
	"github.com/desertthunder/looper/internal/ui"
	"github.com/urfave/cli/v3"
)

// infeasibleExitCode is returned by generate --strict-exit when no playlist could be built.
const infeasibleExitCode = 2

// progress logs updates from the returned channel until it is closed; done closes after the last one.
func (r *Runner) progress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	ch := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			switch update.Phase {
			case tasks.BatchPlan:
				r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step)
			}
		}
	}()
	return ch, done
}

// Generate schedules one plan and prints, exports or records the result.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	plan, _, err := r.loadPlan(cmd)
	if err != nil {
		return err
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

	progressCh, done := r.progress()
	result, err := curator.Generate(ctx, progressCh, plan, tasks.GenerateOpts{Mode: mode, Seed: r.seed(cmd), Record: record})
	close(progressCh)
	<-done

	if err != nil && result == nil {
		return err
	}
	if err != nil {
		r.logger.Warn("run was not recorded", "error", err)
	}

	if !result.OK() {
		return r.writeInfeasible(cmd, result)
	}

	pl := result.Playlist
	format := r.format(cmd)

	switch {
	case cmd.String("output") != "":
		path, err := formatter.WriteExport(pl, format, "", cmd.String("output"))
		if err != nil {
			return err
		}
		r.logger.Info("playlist exported", "path", path, "format", format)
		r.writePlain("✓ %s: %d tracks at gap %d → %s\n", pl.Name, len(pl.Tracks), pl.Gap, path)
	case cmd.Bool("json"):
		if err := r.writeJSON(pl, true); err != nil {
			return err
		}
	case cmd.IsSet("format"):
		data, err := formatter.Export(pl, format)
		if err != nil {
			return err
		}
		if err := r.writeRendered(string(data)); err != nil {
			return err
		}
	default:
		if err := r.writeRendered(ui.RenderPlaylist(pl)); err != nil {
			return err
		}
	}

	if result.Run != nil {
		r.logger.Info("run recorded", "sequence", result.Run.Sequence(), "id", result.Run.ID())
	}
	return nil
}

// writeInfeasible prints the report for a plan that could not be scheduled.
func (r *Runner) writeInfeasible(cmd *cli.Command, result *tasks.GenerateResult) error {
	label := ui.PlanLabels(result.Plan)

	if cmd.Bool("json") {
		views := make([]verdictView, len(result.Result.Verdicts))
		for i, v := range result.Result.Verdicts {
			views[i] = newVerdictView(v, label)
		}
		if err := r.writeJSON(views, true); err != nil {
			return err
		}
	} else {
		r.writePlain("%s %s cannot be spaced\n", ui.Error("✗"), result.Plan.Name)
		if err := r.writeRendered(ui.RenderReport(result.Report(), label)); err != nil {
			return err
		}
	}

	if cmd.Bool("strict-exit") {
		return cli.Exit(fmt.Sprintf("%s: %v", result.Plan.Name, result.Report().Err()), infeasibleExitCode)
	}
	return nil
}
