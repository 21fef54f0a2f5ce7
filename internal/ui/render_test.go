package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/spacing"
	"github.com/desertthunder/looper/internal/tasks"
)

func samplePlan() *models.Plan {
	plan := models.NewPlan("gym", "leg day")
	_ = plan.Add(models.Track{ID: "a", Title: "Alpha", Artist: "One"}, 4)
	_ = plan.Add(models.Track{ID: "b", Title: "Beta", Artist: "Two"}, 1)
	return plan
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderPlan(t *testing.T) {
	assertContains(t, RenderPlan(samplePlan()), "gym (5 plays)", "leg day", "Alpha – One", "Count")
	assertContains(t, RenderPlan(models.NewPlan("empty", "")), "No tracks yet")
}

func TestRenderVerdicts(t *testing.T) {
	counts, _ := spacing.NewCounts(spacing.Entry[string]{ID: "a", Count: 4}, spacing.Entry[string]{ID: "b", Count: 1})
	verdicts := []spacing.Verdict[string]{spacing.Analyze(counts, 3), spacing.Analyze(counts, 0)}

	out := RenderVerdicts(verdicts, PlanLabels(samplePlan()))
	assertContains(t, out,
		"gap 3: infeasible",
		"  Alpha – One appears 4 times",
		"needs at least 13 entries",
		"add 8 more plays",
		"reduce Alpha – One to 1 (-3)",
		"gap 0: feasible (5 entries)",
	)
}

func TestRenderReport(t *testing.T) {
	if RenderReport(nil, nil) != "" {
		t.Error("nil report should render empty")
	}

	counts, _ := spacing.NewCounts(
		spacing.Entry[string]{ID: "x", Count: 3},
		spacing.Entry[string]{ID: "y", Count: 3},
		spacing.Entry[string]{ID: "z", Count: 3},
	)
	out := RenderReport(spacing.Analyze(counts, 3).Report, nil)
	assertContains(t, out, "x appears 3 times", "3 tracks share the top count", "add 2 more")
	if strings.Contains(out, "reduce") {
		t.Errorf("report should not suggest a reduction:\n%s", out)
	}
}

func TestRenderPlaylist(t *testing.T) {
	pl := &models.Playlist{
		Name:     "gym",
		Mode:     "randomized",
		Gap:      2,
		Fallback: true,
		Seed:     7,
		Tracks:   []models.Track{{ID: "a", Title: "Alpha"}, {ID: "b", Title: "Beta"}, {ID: "a", Title: "Alpha"}},
	}
	assertContains(t, RenderPlaylist(pl), "3 tracks · randomized · gap 2 · seed 7", "fallback gap", "1. Alpha", "3. Alpha")
}

func TestRenderRuns(t *testing.T) {
	assertContains(t, RenderRuns(nil), "No runs recorded")

	ok := models.NewRun(1, "gym", "strict", 3, 2, 0)
	ok.SetScheduled(2, true, []string{"a", "b", "a"})
	ok.SetLabels([]string{"Alpha", "", "Alpha"})
	bad := models.NewRun(2, "walk", "strict", 3, 2, 0)
	bad.SetInfeasible(2, 5, "a", 3)

	assertContains(t, RenderRuns([]*models.Run{ok, bad}), "gym", "walk", "scheduled", "infeasible", "2 (fallback)")
	assertContains(t, RenderRun(ok), "Run #1 · gym", "1. Alpha", "2. b", "3. Alpha")
	assertContains(t, RenderRun(bad), "Limiting: a (short by 3)")
}

func TestRenderBatch(t *testing.T) {
	res := &tasks.BatchResult{
		Total:        3,
		Scheduled:    1,
		Infeasible:   1,
		Failed:       1,
		BaseSeed:     100,
		ManifestPath: "out/batch_manifest.json",
		Results: []tasks.BatchItemResult{
			{PlanName: "gym", Success: true, Feasible: true, Gap: 3, File: "out/001-gym.txt"},
			{PlanName: "walk", Success: true, Message: "a appears 5 times"},
			{Source: "missing.toml", Message: "plan not found"},
		},
	}
	assertContains(t, RenderBatch(res),
		"Batch: 3 plans",
		"gym: gap 3 → out/001-gym.txt",
		"walk: a appears 5 times",
		"missing.toml: plan not found",
		"1 scheduled, 1 infeasible, 1 failed",
		"base seed 100",
		"manifest: out/batch_manifest.json",
	)
}

func TestPalette(t *testing.T) {
	p := NewPalette("#000000", "#000000", "#000000", "#000000", "#000000")
	for name, style := range map[string]lipgloss.Style{"title": p.title, "ok": p.ok, "err": p.err, "warn": p.warn, "help": p.help} {
		if !strings.Contains(style.Render("hi"), "hi") {
			t.Errorf("%s style should keep its content", name)
		}
	}
	if !p.ok.GetBold() || !p.help.GetItalic() {
		t.Error("expected bold success and italic help styles")
	}
}
