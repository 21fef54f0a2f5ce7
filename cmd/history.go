package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/shared"
	"github.com/desertthunder/looper/internal/ui"
	"github.com/urfave/cli/v3"
)

// runView is the JSON form of a [models.Run].
type runView struct {
	ID           string   `json:"id"`
	Sequence     int      `json:"sequence"`
	Plan         string   `json:"plan"`
	Mode         string   `json:"mode"`
	Status       string   `json:"status"`
	PreferredGap int      `json:"preferred_gap"`
	FallbackGap  int      `json:"fallback_gap"`
	Gap          int      `json:"gap"`
	Fallback     bool     `json:"fallback"`
	Seed         int64    `json:"seed,omitempty"`
	Total        int      `json:"total"`
	Limiting     string   `json:"limiting,omitempty"`
	Shortfall    int      `json:"shortfall,omitempty"`
	Tracks       []string `json:"tracks,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

func newRunView(run *models.Run, withTracks bool) runView {
	v := runView{
		ID:           run.ID(),
		Sequence:     run.Sequence(),
		Plan:         run.PlanName(),
		Mode:         run.Mode(),
		Status:       string(run.Status()),
		PreferredGap: run.PreferredGap(),
		FallbackGap:  run.FallbackGap(),
		Gap:          run.Gap(),
		Fallback:     run.Fallback(),
		Seed:         run.Seed(),
		Total:        run.Total(),
		Limiting:     run.Limiting(),
		Shortfall:    run.Shortfall(),
		CreatedAt:    run.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
	}
	if withTracks {
		v.Tracks = run.TrackIDs()
	}
	return v
}

// findRun resolves the ref argument as a sequence number, then as an ID.
func (r *Runner) findRun(cmd *cli.Command) (*models.Run, error) {
	ref := cmd.StringArg("ref")
	if ref == "" {
		return nil, fmt.Errorf("%w: run ID or sequence", shared.ErrMissingArgument)
	}

	repo, err := r.repository()
	if err != nil {
		return nil, err
	}

	if seq, err := strconv.Atoi(ref); err == nil {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}

// HistoryList lists recorded runs.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.repository()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if plan := cmd.String("plan"); plan != "" {
		criteria["plan_name"] = plan
	}
	if status := cmd.String("status"); status != "" {
		switch models.RunStatus(status) {
		case models.RunScheduled, models.RunInfeasible:
			criteria["status"] = status
		default:
			return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidFlag, status)
		}
	}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = int(limit)
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return err
	}
	r.logger.Debug("listed runs", "count", len(runs))

	if cmd.Bool("json") {
		views := make([]runView, len(runs))
		for i, run := range runs {
			views[i] = newRunView(run, false)
		}
		return r.writeJSON(views, true)
	}
	return r.writeRendered(ui.RenderRuns(runs))
}

// HistoryShow prints one run with its playlist.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	run, err := r.findRun(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(newRunView(run, true), true)
	}
	return r.writeRendered(ui.RenderRun(run))
}

// HistoryDelete soft-deletes a run.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	run, err := r.findRun(cmd)
	if err != nil {
		return err
	}

	repo, err := r.repository()
	if err != nil {
		return err
	}
	if err := repo.Delete(run.ID()); err != nil {
		return err
	}

	r.logger.Info("run deleted", "id", run.ID(), "sequence", run.Sequence())
	return r.writePlain("✓ Deleted run #%d (%s)\n", run.Sequence(), run.PlanName())
}
