// Package tasks turns plans into playlists with real-time progress reporting.
//
// # Core Operations
//
// [Curator] wraps a [spacing.Engine] keyed by track:
//
//  1. [Curator.Analyze] : feasibility of a plan at the preferred and fallback gaps
//
//  2. [Curator.Generate] : schedule one plan
//     - Converts plan entries to counts with [PlanCounts]
//     - Runs the engine in strict or randomized mode
//     - Maps the schedule back to tracks as a [models.Playlist]
//     - Records the run when asked to
//
//  3. [Curator.GenerateBatch] : schedule many plan files with a bounded worker pool
//     - Each job gets its own seeded source ([NewSource]); nothing random is shared between workers
//     - Writes one export per plan and a JSON manifest
//
// # Progress Reporting
//
// Operations take an optional channel of [ProgressUpdate] values.
// Updates use select with default to prevent blocking.
//
// # Run History
//
// The optional [RunRecorder] interface persists each run (repositories.RunRecorderAdapter).
package tasks
