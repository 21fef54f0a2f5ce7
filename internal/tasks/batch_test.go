package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/looper/internal/formatter"
	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/shared"
	"github.com/desertthunder/looper/internal/spacing"
	th "github.com/desertthunder/looper/internal/testing"
	"github.com/google/go-cmp/cmp"
)

// writePlans writes one plan file per plan and returns their paths in order.
func writePlans(t *testing.T, dir string, plans ...*models.Plan) []string {
	t.Helper()
	paths := make([]string, len(plans))
	for i, plan := range plans {
		paths[i] = filepath.Join(dir, plan.Name+".toml")
		if err := formatter.WritePlan(plan, paths[i]); err != nil {
			t.Fatalf("failed to write plan: %v", err)
		}
	}
	return paths
}

func TestGenerateBatch(t *testing.T) {
	t.Run("mixed outcomes", func(t *testing.T) {
		dir := t.TempDir()
		outDir := filepath.Join(dir, "out")
		paths := writePlans(t, dir,
			th.SamplePlan(t, "gym", 3, 2, 2, 2),
			th.SamplePlan(t, "walk", 5, 1),
			th.SamplePlan(t, "run", 2, 2, 2),
		)
		paths = append(paths, filepath.Join(dir, "missing.toml"))

		progress := make(chan ProgressUpdate, 10)
		result, err := newCurator(t).GenerateBatch(context.Background(), progress, paths, BatchOpts{Format: "csv", OutputDir: outDir})
		if err != nil {
			t.Fatalf("GenerateBatch failed: %v", err)
		}
		close(progress)

		if result.Total != 4 || result.Scheduled != 2 || result.Infeasible != 1 || result.Failed != 1 {
			t.Errorf("unexpected summary: %+v", result)
		}

		var names []string
		for i, r := range result.Results {
			if r.Index != i {
				t.Errorf("results should be ordered by index, got %d at %d", r.Index, i)
			}
			names = append(names, r.PlanName)
		}
		if diff := cmp.Diff([]string{"gym", "walk", "run", ""}, names); diff != "" {
			t.Errorf("plan names mismatch (-want +got):\n%s", diff)
		}

		gym := result.Results[0]
		if !gym.Success || !gym.Feasible || gym.Gap != 3 {
			t.Errorf("unexpected gym result: %+v", gym)
		}
		if gym.File != filepath.Join(outDir, "001-gym.csv") {
			t.Errorf("unexpected export path %s", gym.File)
		}
		th.AssertFileExists(t, gym.File)

		walk := result.Results[1]
		if !walk.Success || walk.Feasible || walk.File != "" || walk.Message == "" {
			t.Errorf("unexpected walk result: %+v", walk)
		}

		missing := result.Results[3]
		if missing.Success || !errors.Is(missing.Error, shared.ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound, got %+v", missing)
		}

		if result.ManifestPath != filepath.Join(outDir, "batch_manifest.json") {
			t.Errorf("unexpected manifest path %s", result.ManifestPath)
		}
		th.AssertFileExists(t, result.ManifestPath)

		updates := 0
		for update := range progress {
			if update.Phase != BatchPlan {
				t.Errorf("unexpected phase %s", update.Phase)
			}
			updates++
		}
		if updates != 4 {
			t.Errorf("expected 4 progress updates, got %d", updates)
		}
	})

	t.Run("seeds are per job and independent of workers", func(t *testing.T) {
		dir := t.TempDir()
		var plans []*models.Plan
		for _, name := range []string{"p1", "p2", "p3", "p4", "p5"} {
			plans = append(plans, th.SamplePlan(t, name, 4, 4, 4, 4, 4))
		}
		paths := writePlans(t, dir, plans...)

		run := func(workers int) []*models.Playlist {
			result, err := newCurator(t).GenerateBatch(context.Background(), nil, paths, BatchOpts{
				Mode:       spacing.Randomized,
				Seed:       100,
				NumWorkers: workers,
			})
			if err != nil {
				t.Fatalf("GenerateBatch failed: %v", err)
			}
			if result.BaseSeed != 100 {
				t.Errorf("expected base seed 100, got %d", result.BaseSeed)
			}
			out := make([]*models.Playlist, len(result.Results))
			for i, r := range result.Results {
				if r.Seed != int64(100+i) {
					t.Errorf("job %d: expected seed %d, got %d", i, 100+i, r.Seed)
				}
				out[i] = r.Generate.Playlist
			}
			return out
		}

		if diff := cmp.Diff(run(1), run(4)); diff != "" {
			t.Errorf("worker count changed the output:\n%s", diff)
		}
	})

	t.Run("negative base seed skips zero", func(t *testing.T) {
		dir := t.TempDir()
		paths := writePlans(t, dir,
			th.SamplePlan(t, "p1", 2, 2, 2),
			th.SamplePlan(t, "p2", 2, 2, 2),
			th.SamplePlan(t, "p3", 2, 2, 2),
		)

		run := func() []*models.Playlist {
			result, err := newCurator(t).GenerateBatch(context.Background(), nil, paths, BatchOpts{Mode: spacing.Randomized, Seed: -1})
			if err != nil {
				t.Fatalf("GenerateBatch failed: %v", err)
			}

			var seeds []int64
			out := make([]*models.Playlist, len(result.Results))
			for i, r := range result.Results {
				seeds = append(seeds, r.Seed)
				if r.Generate.Seed != r.Seed {
					t.Errorf("job %d: reported seed %d, used %d", i, r.Seed, r.Generate.Seed)
				}
				out[i] = r.Generate.Playlist
			}
			if diff := cmp.Diff([]int64{-1, 1, 2}, seeds); diff != "" {
				t.Errorf("seeds mismatch (-want +got):\n%s", diff)
			}
			return out
		}

		if diff := cmp.Diff(run(), run()); diff != "" {
			t.Errorf("same base seed produced different playlists:\n%s", diff)
		}
	})

	t.Run("jobSeed", func(t *testing.T) {
		tc := []struct {
			base int64
			i    int
			want int64
		}{
			{100, 0, 100},
			{100, 3, 103},
			{-2, 1, -1},
			{-2, 2, 1},
			{-2, 3, 2},
			{-1, 0, -1},
		}
		for _, tt := range tc {
			if got := jobSeed(tt.base, tt.i); got != tt.want {
				t.Errorf("jobSeed(%d, %d) = %d, want %d", tt.base, tt.i, got, tt.want)
			}
		}
	})

	t.Run("no output directory writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		paths := writePlans(t, dir, th.SamplePlan(t, "gym", 1, 1))

		result, err := newCurator(t).GenerateBatch(context.Background(), nil, paths, BatchOpts{})
		if err != nil {
			t.Fatalf("GenerateBatch failed: %v", err)
		}
		if result.ManifestPath != "" || result.Results[0].File != "" {
			t.Errorf("expected no files, got %+v", result)
		}
	})

	t.Run("records every plan", func(t *testing.T) {
		dir := t.TempDir()
		paths := writePlans(t, dir, th.SamplePlan(t, "a", 1), th.SamplePlan(t, "b", 2, 2, 2), th.SamplePlan(t, "c", 3))

		recorder := &th.MockRecorder{}
		result, err := newCurator(t, WithRecorder(recorder)).GenerateBatch(context.Background(), nil, paths, BatchOpts{Record: true, NumWorkers: 3})
		if err != nil {
			t.Fatalf("GenerateBatch failed: %v", err)
		}
		if len(recorder.Recorded()) != 3 {
			t.Errorf("expected 3 recorded runs, got %d", len(recorder.Recorded()))
		}
		if result.Scheduled != 2 || result.Infeasible != 1 {
			t.Errorf("unexpected summary: %+v", result)
		}
	})

	t.Run("errors", func(t *testing.T) {
		c := newCurator(t)

		if _, err := c.GenerateBatch(context.Background(), nil, nil, BatchOpts{Format: "xml"}); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		paths := writePlans(t, t.TempDir(), th.SamplePlan(t, "gym", 1))
		if _, err := c.GenerateBatch(ctx, nil, paths, BatchOpts{}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}

		blocker := filepath.Join(t.TempDir(), "file")
		th.MustWriteFile(t, blocker, "x")
		result, err := c.GenerateBatch(context.Background(), nil, paths, BatchOpts{OutputDir: blocker})
		if err == nil {
			t.Error("expected manifest error")
		}
		if result == nil || result.Failed != 1 {
			t.Errorf("export into a file path should fail the job, got %+v", result)
		}
	})
}
