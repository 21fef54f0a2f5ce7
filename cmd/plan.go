package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/looper/internal/formatter"
	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/shared"
	"github.com/desertthunder/looper/internal/ui"
	"github.com/urfave/cli/v3"
)

// planPath returns the file argument.
func planPath(cmd *cli.Command) (string, error) {
	path := cmd.StringArg("file")
	if path == "" {
		return "", fmt.Errorf("%w: plan file path", shared.ErrMissingArgument)
	}
	return path, nil
}

// loadPlan reads the plan named by the file argument.
func (r *Runner) loadPlan(cmd *cli.Command) (*models.Plan, string, error) {
	path, err := planPath(cmd)
	if err != nil {
		return nil, "", err
	}

	plan, err := formatter.ReadPlan(path)
	if err != nil {
		return nil, path, err
	}
	r.logger.Debug("loaded plan", "path", path, "name", plan.Name, "entries", len(plan.Entries))
	return plan, path, nil
}

// trackFlag builds a track from --id, --title and --artist.
func trackFlag(cmd *cli.Command) (models.Track, error) {
	t := models.Track{ID: cmd.String("id"), Title: cmd.String("title"), Artist: cmd.String("artist")}
	if t.ID == "" && t.Title == "" {
		return t, fmt.Errorf("%w: --id or --title is required", shared.ErrMissingArgument)
	}
	return t, nil
}

// editPlan loads the plan, applies fn and writes it back.
func (r *Runner) editPlan(cmd *cli.Command, fn func(*models.Plan) (string, error)) error {
	plan, path, err := r.loadPlan(cmd)
	if err != nil {
		return err
	}

	msg, err := fn(plan)
	if err != nil {
		return err
	}

	if err := formatter.WritePlan(plan, path); err != nil {
		return err
	}
	r.logger.Debug("saved plan", "path", path, "total", plan.Total())
	return r.writePlain("✓ %s (%d tracks, %d plays)\n", msg, len(plan.Entries), plan.Total())
}

// PlanInit creates an empty plan file.
func (r *Runner) PlanInit(ctx context.Context, cmd *cli.Command) error {
	path, err := planPath(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidArgument, path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	plan := models.NewPlan(cmd.String("name"), cmd.String("description"))
	if err := formatter.WritePlan(plan, path); err != nil {
		return err
	}

	r.logger.Info("plan created", "path", path, "name", plan.Name)
	return r.writePlain("✓ Created plan %q at %s\n", plan.Name, path)
}

// PlanAdd adds plays of a track.
func (r *Runner) PlanAdd(ctx context.Context, cmd *cli.Command) error {
	track, err := trackFlag(cmd)
	if err != nil {
		return err
	}
	n := int(cmd.Int("count"))

	return r.editPlan(cmd, func(p *models.Plan) (string, error) {
		if err := p.Add(track, n); err != nil {
			return "", err
		}
		entry, _ := p.Lookup(track.Key())
		return fmt.Sprintf("%s now plays %d times", track.Label(), entry.Count), nil
	})
}

// PlanSet sets the count of a track; zero removes it.
func (r *Runner) PlanSet(ctx context.Context, cmd *cli.Command) error {
	track, err := trackFlag(cmd)
	if err != nil {
		return err
	}
	if !cmd.IsSet("count") {
		return fmt.Errorf("%w: --count", shared.ErrMissingArgument)
	}
	n := int(cmd.Int("count"))
	if n < 0 {
		return fmt.Errorf("%w: count must not be negative", shared.ErrInvalidFlag)
	}

	return r.editPlan(cmd, func(p *models.Plan) (string, error) {
		if err := p.SetCount(track.Key(), n); err != nil {
			return "", err
		}
		if n == 0 {
			return fmt.Sprintf("Removed %s", track.Key()), nil
		}
		return fmt.Sprintf("%s set to %d plays", track.Key(), n), nil
	})
}

// PlanSubstitute moves plays from --from to the track given by the other flags.
func (r *Runner) PlanSubstitute(ctx context.Context, cmd *cli.Command) error {
	track, err := trackFlag(cmd)
	if err != nil {
		return err
	}
	from := cmd.String("from")

	return r.editPlan(cmd, func(p *models.Plan) (string, error) {
		moved, err := p.Substitute(from, track, int(cmd.Int("count")))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved %d plays from %s to %s", moved, from, track.Label()), nil
	})
}

// PlanRemove drops a track from the plan.
func (r *Runner) PlanRemove(ctx context.Context, cmd *cli.Command) error {
	track, err := trackFlag(cmd)
	if err != nil {
		return err
	}

	return r.editPlan(cmd, func(p *models.Plan) (string, error) {
		if err := p.Remove(track.Key()); err != nil {
			return "", err
		}
		return fmt.Sprintf("Removed %s", track.Key()), nil
	})
}

// PlanShow prints the plan as a table or JSON.
func (r *Runner) PlanShow(ctx context.Context, cmd *cli.Command) error {
	plan, _, err := r.loadPlan(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(plan, true)
	}
	return r.writeRendered(ui.RenderPlan(plan))
}
