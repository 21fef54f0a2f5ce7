// Package repositories implements SQLite persistence for scheduling runs.
//
// [RunRepository] stores each run in the runs table and its ordered track keys in run_tracks.
// Deleted runs are soft deleted via deleted_at and excluded from queries by default.
//
// Sequence numbers provide stable, human-readable ordering (e.g. run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
