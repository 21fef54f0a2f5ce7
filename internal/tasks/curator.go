package tasks

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/shared"
	"github.com/desertthunder/looper/internal/spacing"
)

// RunRecorder persists finished scheduling runs.
type RunRecorder interface {
	RecordRun(run *models.Run) error
}

// Curator turns plans into playlists with a [spacing.Engine] and optionally records each run.
// It is safe for concurrent use.
type Curator struct {
	engine   *spacing.Engine[string]
	recorder RunRecorder
	logger   *log.Logger
}

// CuratorOption configures a [Curator].
type CuratorOption func(*Curator)

// WithRecorder enables run history.
func WithRecorder(r RunRecorder) CuratorOption {
	return func(c *Curator) { c.recorder = r }
}

// WithLogger sets the curator's logger.
func WithLogger(l *log.Logger) CuratorOption {
	return func(c *Curator) { c.logger = l }
}

// NewCurator creates a Curator around engine.
func NewCurator(engine *spacing.Engine[string], opts ...CuratorOption) *Curator {
	c := &Curator{engine: engine}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateOpts selects the scheduling mode and seed for one plan.
type GenerateOpts struct {
	Mode   spacing.Mode
	Seed   int64 // randomized mode only; 0 picks a time-based seed
	Record bool  // persist the run when a recorder is configured
}

// GenerateResult is the outcome of scheduling one plan.
type GenerateResult struct {
	Plan     *models.Plan
	Playlist *models.Playlist // nil when the plan is infeasible
	Result   spacing.Result[string]
	Seed     int64       // resolved seed, 0 in strict mode
	Run      *models.Run // set when the run was recorded
}

// OK reports whether a playlist was produced.
func (r *GenerateResult) OK() bool { return r.Playlist != nil }

// Report returns the infeasibility report, or nil.
func (r *GenerateResult) Report() *spacing.Report[string] { return r.Result.Report }

// PlanCounts converts a plan into engine counts keyed by track key, plus a lookup from key back to track.
func PlanCounts(plan *models.Plan) (*spacing.Counts[string], map[string]models.Track, error) {
	counts := &spacing.Counts[string]{}
	tracks := make(map[string]models.Track, len(plan.Entries))

	for _, e := range plan.Entries {
		track := e.Track()
		key := track.Key()
		if err := counts.Add(key, e.Count); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, key, err)
		}
		if _, ok := tracks[key]; !ok {
			tracks[key] = track
		}
	}
	return counts, tracks, nil
}

// NewSource returns a deterministic random source for seed.
func NewSource(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Analyze reports feasibility of plan at the engine's preferred and fallback gaps.
func (c *Curator) Analyze(plan *models.Plan) ([]spacing.Verdict[string], error) {
	counts, _, err := PlanCounts(plan)
	if err != nil {
		return nil, err
	}
	return c.engine.Analyze(counts), nil
}

// Generate schedules plan.
//
// An infeasible plan is not an error; the result carries the report instead of a playlist.
// When recording fails the result is still returned alongside the error.
func (c *Curator) Generate(ctx context.Context, progress chan<- ProgressUpdate, plan *models.Plan, opts GenerateOpts) (*GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	counts, tracks, err := PlanCounts(plan)
	if err != nil {
		return nil, err
	}

	logger := c.loggerFor(plan.Name)
	sendProgress(progress, analyzeUpdate(1, 3, plan))

	result := &GenerateResult{Plan: plan}

	var rng spacing.Source
	if opts.Mode == spacing.Randomized {
		result.Seed = shared.ResolveSeed(opts.Seed)
		rng = NewSource(result.Seed)
	}

	res, err := c.engine.Schedule(counts, opts.Mode, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", plan.Name, err)
	}
	result.Result = res
	sendProgress(progress, scheduleUpdate(2, 3, plan, res))

	if res.OK() {
		result.Playlist = buildPlaylist(plan, res, result.Seed, tracks)
		logger.Debug("scheduled", "gap", res.Gap, "fallback", res.Fallback, "tracks", len(res.Schedule))
	} else {
		logger.Info("infeasible", "limiting", res.Report.Limiting, "shortfall", res.Report.Shortfall)
	}

	if opts.Record && c.recorder != nil {
		run := newRun(plan, res, result, c.engine.Config())
		if err := c.recorder.RecordRun(run); err != nil {
			logger.Error("failed to record run", "error", err)
			return result, err
		}
		result.Run = run
		sendProgress(progress, recordUpdate(3, 3, run))
	}

	return result, nil
}

func (c *Curator) loggerFor(planName string) *log.Logger {
	if c.logger == nil {
		return log.New(io.Discard)
	}
	return c.logger.With("plan", planName)
}

func buildPlaylist(plan *models.Plan, res spacing.Result[string], seed int64, tracks map[string]models.Track) *models.Playlist {
	ordered := make([]models.Track, len(res.Schedule))
	for i, key := range res.Schedule {
		ordered[i] = tracks[key]
	}
	return &models.Playlist{
		Name:        plan.Name,
		Description: plan.Description,
		Mode:        res.Mode.String(),
		Gap:         res.Gap,
		Fallback:    res.Fallback,
		Seed:        seed,
		Tracks:      ordered,
	}
}

func newRun(plan *models.Plan, res spacing.Result[string], gr *GenerateResult, cfg spacing.Config) *models.Run {
	run := models.NewRun(0, plan.Name, res.Mode.String(), cfg.PreferredGap, cfg.FallbackGap, gr.Seed)
	if res.OK() {
		run.SetScheduled(res.Gap, res.Fallback, res.Schedule)
		run.SetLabels(gr.Playlist.Labels())
		return run
	}
	r := res.Report
	run.SetInfeasible(r.Gap, r.Total, r.Limiting, r.Shortfall)
	return run
}
