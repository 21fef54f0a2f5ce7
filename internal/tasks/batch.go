package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/desertthunder/looper/internal/formatter"
	"github.com/desertthunder/looper/internal/shared"
	"github.com/desertthunder/looper/internal/spacing"
)

const (
	defaultBatchWorkers = 4
	maxBatchWorkers     = 16
)

// BatchOpts contains configuration for scheduling many plans at once.
type BatchOpts struct {
	Mode       spacing.Mode
	Seed       int64  // base seed; job i uses Seed+i, skipping 0. 0 picks a time-based base
	NumWorkers int    // concurrent workers (default: 4, max: 16)
	Format     string // export format; see [shared.Formats]
	OutputDir  string // where exports and the manifest go; empty skips writing files
	Record     bool
}

// BatchJob is one plan file to schedule.
type BatchJob struct {
	Index int
	Path  string
	Seed  int64
}

// BatchItemResult is the outcome of one [BatchJob].
type BatchItemResult struct {
	Index    int             `json:"index"`
	Source   string          `json:"source"`
	PlanName string          `json:"plan,omitempty"`
	Seed     int64           `json:"seed,omitempty"`
	Success  bool            `json:"success"`
	Feasible bool            `json:"feasible"`
	Gap      int             `json:"gap,omitempty"`
	Fallback bool            `json:"fallback,omitempty"`
	File     string          `json:"file,omitempty"`
	Message  string          `json:"message,omitempty"`
	Error    error           `json:"-"`
	Generate *GenerateResult `json:"-"`
}

// BatchResult summarizes a batch run. Results are ordered by job index.
type BatchResult struct {
	Total           int               `json:"total"`
	Scheduled       int               `json:"scheduled"`
	Infeasible      int               `json:"infeasible"`
	Failed          int               `json:"failed"`
	BaseSeed        int64             `json:"base_seed,omitempty"`
	OutputDirectory string            `json:"output_directory,omitempty"`
	ManifestPath    string            `json:"-"`
	Results         []BatchItemResult `json:"results"`
}

// GenerateBatch schedules the plan files at paths concurrently.
//
// Jobs are spread over a bounded worker pool. Each job gets its own random source, so results do not depend on worker interleaving.
// Failures are reported per job; the returned error covers only cancellation and manifest writing.
func (c *Curator) GenerateBatch(ctx context.Context, prog chan<- ProgressUpdate, paths []string, opts BatchOpts) (*BatchResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultBatchWorkers
	}
	if opts.NumWorkers > maxBatchWorkers {
		opts.NumWorkers = maxBatchWorkers
	}
	if opts.Format == "" {
		opts.Format = "txt"
	}
	if !slices.Contains(shared.Formats, opts.Format) {
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, opts.Format)
	}

	result := &BatchResult{
		Total:           len(paths),
		OutputDirectory: opts.OutputDir,
		Results:         make([]BatchItemResult, 0, len(paths)),
	}
	if opts.Mode == spacing.Randomized {
		result.BaseSeed = shared.ResolveSeed(opts.Seed)
	}

	jobs := make(chan BatchJob, len(paths))
	results := make(chan BatchItemResult, len(paths))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go c.batchWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, path := range paths {
			job := BatchJob{Index: i, Path: path}
			if result.BaseSeed != 0 {
				job.Seed = jobSeed(result.BaseSeed, i)
			}

			select {
			case <-ctx.Done():
				return
			case jobs <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch {
		case !res.Success:
			result.Failed++
			sendProgress(prog, batchFailedUpdate(completed, len(paths), res.Source, res.Error))
		case !res.Feasible:
			result.Infeasible++
			sendProgress(prog, batchInfeasibleUpdate(completed, len(paths), res.PlanName))
		default:
			result.Scheduled++
			sendProgress(prog, batchCompletedUpdate(completed, len(paths), res.PlanName, res.Gap))
		}
	}

	slices.SortFunc(result.Results, func(a, b BatchItemResult) int { return a.Index - b.Index })

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if opts.OutputDir != "" {
		manifestPath := filepath.Join(opts.OutputDir, "batch_manifest.json")
		if err := formatter.WriteManifest(result, manifestPath); err != nil {
			return result, fmt.Errorf("batch completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = manifestPath
	}

	return result, nil
}

// batchWorker schedules plans from the jobs channel until it is closed or ctx is cancelled.
func (c *Curator) batchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan BatchJob,
	results chan<- BatchItemResult,
	opts BatchOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- c.runBatchJob(ctx, job, opts)
	}
}

// jobSeed derives the seed for job i from base. Zero would mean "pick a time-based seed", so
// the sequence steps over it.
func jobSeed(base int64, i int) int64 {
	s := base + int64(i)
	if base < 0 && s >= 0 {
		s++
	}
	return s
}

func (c *Curator) runBatchJob(ctx context.Context, job BatchJob, opts BatchOpts) BatchItemResult {
	res := BatchItemResult{Index: job.Index, Source: job.Path, Seed: job.Seed}

	fail := func(err error) BatchItemResult {
		res.Success = false
		res.Error = err
		res.Message = err.Error()
		return res
	}

	plan, err := formatter.ReadPlan(job.Path)
	if err != nil {
		return fail(err)
	}
	res.PlanName = plan.Name

	gen, err := c.Generate(ctx, nil, plan, GenerateOpts{Mode: opts.Mode, Seed: job.Seed, Record: opts.Record})
	if err != nil && gen == nil {
		return fail(err)
	}
	res.Generate = gen
	res.Seed = gen.Seed
	res.Success = true

	if !gen.OK() {
		res.Message = gen.Report().String()
		if err != nil {
			res.Message += "; " + err.Error()
		}
		return res
	}

	res.Feasible = true
	res.Gap = gen.Result.Gap
	res.Fallback = gen.Result.Fallback

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}

	if opts.OutputDir != "" {
		name := formatter.SanitizeFilename(fmt.Sprintf("%03d-%s", job.Index+1, plan.Name))
		path := filepath.Join(opts.OutputDir, name+formatter.Extension(opts.Format))
		if _, werr := formatter.WriteExport(gen.Playlist, opts.Format, "", path); werr != nil {
			errs = append(errs, werr)
		} else {
			res.File = path
		}
	}

	if len(errs) > 0 {
		return fail(errors.Join(errs...))
	}
	return res
}
