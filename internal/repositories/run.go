package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/shared"
)

const runColumns = `id, sequence, plan_name, mode, preferred_gap, fallback_gap, gap, fallback, seed, status, total, limiting, shortfall, created_at, updated_at, deleted_at`

// RunRepository implements models.Repository[*models.Run] for scheduling history.
//
// A run row and its ordered tracks are always written in one transaction.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run and its tracks with generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	run.SetID(shared.GenerateID())

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(tx, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	run.SetSequence(sequence)

	query := `
		INSERT INTO runs (id, sequence, plan_name, mode, preferred_gap, fallback_gap, gap, fallback, seed, status, total, limiting, shortfall, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		run.ID(),
		sequence,
		run.PlanName(),
		run.Mode(),
		run.PreferredGap(),
		run.FallbackGap(),
		run.Gap(),
		run.Fallback(),
		run.Seed(),
		string(run.Status()),
		run.Total(),
		nullable(run.Limiting()),
		run.Shortfall(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertTracks(tx, run); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// Get retrieves a run and its tracks by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ? AND deleted_at IS NULL`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadTracks(run); err != nil {
		return nil, err
	}
	return run, nil
}

// GetBySequence retrieves a run by its sequence number, excluding soft-deleted runs
func (r *RunRepository) GetBySequence(sequence int) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE sequence = ? AND deleted_at IS NULL`

	run, err := scanRun(r.db.QueryRow(query, sequence))
	if err != nil {
		return nil, err
	}

	if err := r.loadTracks(run); err != nil {
		return nil, err
	}
	return run, nil
}

// Update rewrites the outcome of an existing run and replaces its tracks
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE runs
		SET mode = ?, gap = ?, fallback = ?, seed = ?, status = ?, total = ?, limiting = ?, shortfall = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := tx.Exec(query,
		run.Mode(),
		run.Gap(),
		run.Fallback(),
		run.Seed(),
		string(run.Status()),
		run.Total(),
		nullable(run.Limiting()),
		run.Shortfall(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID())
	}

	if _, err := tx.Exec(`DELETE FROM run_tracks WHERE run_id = ?`, run.ID()); err != nil {
		return fmt.Errorf("failed to clear run tracks: %w", err)
	}

	if err := insertTracks(tx, run); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return nil
}

// List retrieves all runs matching the given criteria, excluding soft-deleted runs.
//
// Supported criteria: "plan_name" (string), "status" (string or [models.RunStatus]) and "limit" (int, newest first when set).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE deleted_at IS NULL`
	args := []any{}

	if planName, ok := criteria["plan_name"].(string); ok && planName != "" {
		query += " AND plan_name = ?"
		args = append(args, planName)
	}

	switch status := criteria["status"].(type) {
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	case models.RunStatus:
		query += " AND status = ?"
		args = append(args, string(status))
	}

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " ORDER BY sequence DESC LIMIT ?"
		args = append(args, limit)
	} else {
		query += " ORDER BY sequence ASC"
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, run := range runs {
		if err := r.loadTracks(run); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

func (r *RunRepository) loadTracks(run *models.Run) error {
	rows, err := r.db.Query(`SELECT track_id, label FROM run_tracks WHERE run_id = ? ORDER BY position ASC`, run.ID())
	if err != nil {
		return fmt.Errorf("failed to query run tracks: %w", err)
	}
	defer rows.Close()

	var (
		ids    []string
		labels []string
	)
	for rows.Next() {
		var (
			id    string
			label sql.NullString
		)
		if err := rows.Scan(&id, &label); err != nil {
			return fmt.Errorf("failed to scan run track: %w", err)
		}
		ids = append(ids, id)
		labels = append(labels, label.String)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	run.SetTrackIDs(ids)
	if ids != nil {
		run.SetLabels(labels)
	}
	return nil
}

func insertTracks(tx *sql.Tx, run *models.Run) error {
	ids := run.TrackIDs()
	if len(ids) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`INSERT INTO run_tracks (run_id, position, track_id, label) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare run track insert: %w", err)
	}
	defer stmt.Close()

	labels := run.Labels()
	for i, id := range ids {
		var label any
		if i < len(labels) {
			label = nullable(labels[i])
		}
		if _, err := stmt.Exec(run.ID(), i, id, label); err != nil {
			return fmt.Errorf("failed to insert run track %d: %w", i, err)
		}
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var (
		id           string
		sequence     int
		planName     string
		mode         string
		preferredGap int
		fallbackGap  int
		gap          int
		fallback     bool
		seed         int64
		status       string
		total        int
		limiting     sql.NullString
		shortfall    int
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &planName, &mode, &preferredGap, &fallbackGap, &gap, &fallback, &seed, &status, &total, &limiting, &shortfall, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := models.NewRun(sequence, planName, mode, preferredGap, fallbackGap, seed)
	switch models.RunStatus(status) {
	case models.RunScheduled:
		run.SetScheduled(gap, fallback, nil)
	case models.RunInfeasible:
		run.SetInfeasible(gap, total, limiting.String, shortfall)
	default:
		return nil, fmt.Errorf("failed to scan run: unknown status %q", status)
	}

	run.SetID(id)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
