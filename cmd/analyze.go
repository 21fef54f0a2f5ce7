package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/looper/internal/spacing"
	"github.com/desertthunder/looper/internal/tasks"
	"github.com/desertthunder/looper/internal/ui"
	"github.com/urfave/cli/v3"
)

// verdictView is the JSON form of a [spacing.Verdict] with the limiting track labeled.
type verdictView struct {
	Gap       int    `json:"gap"`
	Feasible  bool   `json:"feasible"`
	Total     int    `json:"total"`
	Limiting  string `json:"limiting,omitempty"`
	Label     string `json:"label,omitempty"`
	Count     int    `json:"count,omitempty"`
	Ties      int    `json:"ties,omitempty"`
	Required  int    `json:"required,omitempty"`
	Shortfall int    `json:"shortfall,omitempty"`
	MaxCount  int    `json:"max_count,omitempty"`
}

func newVerdictView(v spacing.Verdict[string], label ui.Labeler) verdictView {
	view := verdictView{Gap: v.Gap, Feasible: v.Feasible, Total: v.Total}
	if r := v.Report; r != nil {
		view.Limiting = r.Limiting
		view.Label = label(r.Limiting)
		view.Count = r.Count
		view.Ties = r.Ties
		view.Required = r.Required
		view.Shortfall = r.Shortfall
		view.MaxCount = r.MaxCount()
	}
	return view
}

// Analyze reports whether a plan can be spaced at the configured gaps, or at --gap.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	plan, _, err := r.loadPlan(cmd)
	if err != nil {
		return err
	}

	var verdicts []spacing.Verdict[string]
	if cmd.IsSet("gap") {
		gap := int(cmd.Int("gap"))
		if gap < 0 {
			return fmt.Errorf("%w: gap must not be negative", spacing.ErrInvalidGap)
		}
		counts, _, err := tasks.PlanCounts(plan)
		if err != nil {
			return err
		}
		verdicts = []spacing.Verdict[string]{spacing.Analyze(counts, gap)}
	} else {
		curator, err := r.curator(false)
		if err != nil {
			return err
		}
		if verdicts, err = curator.Analyze(plan); err != nil {
			return err
		}
	}

	label := ui.PlanLabels(plan)
	if cmd.Bool("json") {
		views := make([]verdictView, len(verdicts))
		for i, v := range verdicts {
			views[i] = newVerdictView(v, label)
		}
		return r.writeJSON(views, true)
	}

	r.writePlain("%s\n", ui.Title(fmt.Sprintf("%s (%d plays, %d tracks)", plan.Name, plan.Total(), len(plan.Entries))))
	return r.writeRendered(ui.RenderVerdicts(verdicts, label))
}
