package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/spacing"
	"github.com/desertthunder/looper/internal/tasks"
)

// Labeler maps a track key to a display label.
type Labeler func(key string) string

// PlanLabels returns a [Labeler] for the tracks in plan. Unknown keys are returned unchanged.
func PlanLabels(plan *models.Plan) Labeler {
	labels := make(map[string]string, len(plan.Entries))
	for _, e := range plan.Entries {
		t := e.Track()
		labels[t.Key()] = t.Label()
	}
	return func(key string) string {
		if l, ok := labels[key]; ok {
			return l
		}
		return key
	}
}

// Title renders s in the title style.
func Title(s string) string { return styles.title.Render(s) }

// Success renders s in the success style.
func Success(s string) string { return styles.ok.Render(s) }

// Error renders s in the error style.
func Error(s string) string { return styles.err.Render(s) }

// Warning renders s in the warning style.
func Warning(s string) string { return styles.warn.Render(s) }

// Help renders s in the muted help style.
func Help(s string) string { return styles.help.Render(s) }

// RenderPlan shows a plan's tracks and counts as a table.
func RenderPlan(plan *models.Plan) string {
	var b strings.Builder
	b.WriteString(Title(fmt.Sprintf("%s (%d plays)", plan.Name, plan.Total())))
	b.WriteString("\n")
	if plan.Description != "" {
		b.WriteString(Help(plan.Description) + "\n")
	}
	if len(plan.Entries) == 0 {
		b.WriteString(Help("No tracks yet. Add some with `looper plan add`.") + "\n")
		return b.String()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "Key", "Track", "Count")
	for i, e := range plan.Entries {
		track := e.Track()
		t.Row(strconv.Itoa(i+1), track.Key(), track.Label(), strconv.Itoa(e.Count))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// RenderVerdicts shows one line per gap tried, with the report for each infeasible gap.
func RenderVerdicts(verdicts []spacing.Verdict[string], label Labeler) string {
	var b strings.Builder
	for _, v := range verdicts {
		if v.Feasible {
			fmt.Fprintf(&b, "%s gap %d: feasible (%d entries)\n", Success("✓"), v.Gap, v.Total)
			continue
		}
		fmt.Fprintf(&b, "%s gap %d: infeasible\n", Error("✗"), v.Gap)
		b.WriteString(indent(RenderReport(v.Report, label), "  "))
	}
	return b.String()
}

// RenderReport explains an infeasibility report in track labels.
func RenderReport(r *spacing.Report[string], label Labeler) string {
	if r == nil {
		return ""
	}
	if label == nil {
		label = func(k string) string { return k }
	}
	name := label(r.Limiting)

	var b strings.Builder
	fmt.Fprintf(&b, "%s appears %d times; the other tracks add %d plays.\n", name, r.Count, r.Others())
	fmt.Fprintf(&b, "Gap %d needs at least %d entries, the plan has %d.\n", r.Gap, r.Required, r.Total)
	if r.Ties > 1 {
		b.WriteString(Help(fmt.Sprintf("%d tracks share the top count.", r.Ties)) + "\n")
	}
	b.WriteString(Warning(fmt.Sprintf("→ add %d more plays of other tracks", r.Shortfall)) + "\n")
	if r.Reducible {
		b.WriteString(Warning(fmt.Sprintf("→ or reduce %s to %d (-%d)", name, r.MaxCount(), r.Reduction)) + "\n")
	}
	return b.String()
}

// RenderPlaylist shows a scheduled playlist as a numbered list.
func RenderPlaylist(pl *models.Playlist) string {
	var b strings.Builder

	b.WriteString(Title(pl.Name))
	b.WriteString("\n")

	summary := fmt.Sprintf("%d tracks · %s · gap %d", len(pl.Tracks), pl.Mode, pl.Gap)
	if pl.Seed != 0 {
		summary += fmt.Sprintf(" · seed %d", pl.Seed)
	}
	b.WriteString(Help(summary) + "\n")
	if pl.Fallback {
		b.WriteString(Warning("Preferred gap was not achievable; using the fallback gap.") + "\n")
	}
	b.WriteString("\n")

	width := len(strconv.Itoa(len(pl.Tracks)))
	for i, label := range pl.Labels() {
		fmt.Fprintf(&b, "%*d. %s\n", width, i+1, label)
	}
	return b.String()
}

// RenderRuns shows run history as a table.
func RenderRuns(runs []*models.Run) string {
	if len(runs) == 0 {
		return Help("No runs recorded.") + "\n"
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "Plan", "Mode", "Status", "Gap", "Tracks", "Created")
	for _, r := range runs {
		t.Row(
			strconv.Itoa(r.Sequence()),
			r.PlanName(),
			r.Mode(),
			string(r.Status()),
			gapCell(r),
			strconv.Itoa(r.Total()),
			r.CreatedAt().Format("2006-01-02 15:04"),
		)
	}
	return t.Render() + "\n"
}

// RenderRun shows one run and, when scheduled, its tracks.
func RenderRun(r *models.Run) string {
	var b strings.Builder
	b.WriteString(Title(fmt.Sprintf("Run #%d · %s", r.Sequence(), r.PlanName())))
	b.WriteString("\n")
	fmt.Fprintf(&b, "ID:       %s\n", r.ID())
	fmt.Fprintf(&b, "Created:  %s\n", r.CreatedAt().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Mode:     %s\n", r.Mode())
	if r.Seed() != 0 {
		fmt.Fprintf(&b, "Seed:     %d\n", r.Seed())
	}
	fmt.Fprintf(&b, "Gaps:     preferred %d, fallback %d\n", r.PreferredGap(), r.FallbackGap())

	if r.Status() == models.RunInfeasible {
		fmt.Fprintf(&b, "Status:   %s at gap %d\n", Error("infeasible"), r.Gap())
		fmt.Fprintf(&b, "Limiting: %s (short by %d)\n", r.Limiting(), r.Shortfall())
		return b.String()
	}

	fmt.Fprintf(&b, "Status:   %s at gap %s\n", Success("scheduled"), gapCell(r))
	b.WriteString("\n")

	ids, labels := r.TrackIDs(), r.Labels()
	width := len(strconv.Itoa(len(ids)))
	for i, id := range ids {
		label := id
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		fmt.Fprintf(&b, "%*d. %s\n", width, i+1, label)
	}
	return b.String()
}

// RenderBatch summarizes a batch run.
func RenderBatch(res *tasks.BatchResult) string {
	var b strings.Builder
	b.WriteString(Title(fmt.Sprintf("Batch: %d plans", res.Total)))
	b.WriteString("\n")

	for _, r := range res.Results {
		name := r.PlanName
		if name == "" {
			name = r.Source
		}
		switch {
		case !r.Success:
			fmt.Fprintf(&b, "%s %s: %s\n", Error("✗"), name, r.Message)
		case !r.Feasible:
			fmt.Fprintf(&b, "%s %s: %s\n", Warning("!"), name, r.Message)
		default:
			line := fmt.Sprintf("%s %s: gap %d", Success("✓"), name, r.Gap)
			if r.File != "" {
				line += " → " + r.File
			}
			b.WriteString(line + "\n")
		}
	}

	fmt.Fprintf(&b, "\n%d scheduled, %d infeasible, %d failed\n", res.Scheduled, res.Infeasible, res.Failed)
	if res.BaseSeed != 0 {
		b.WriteString(Help(fmt.Sprintf("base seed %d", res.BaseSeed)) + "\n")
	}
	if res.ManifestPath != "" {
		b.WriteString(Help("manifest: "+res.ManifestPath) + "\n")
	}
	return b.String()
}

func gapCell(r *models.Run) string {
	if r.Fallback() {
		return fmt.Sprintf("%d (fallback)", r.Gap())
	}
	return strconv.Itoa(r.Gap())
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix + l)
	}
	return b.String()
}
