package models

import (
	"fmt"
	"time"
)

// RunStatus is the outcome of a scheduling run.
type RunStatus string

const (
	RunScheduled  RunStatus = "scheduled"
	RunInfeasible RunStatus = "infeasible"
)

// Run records one scheduling call: the settings it used, what came out, and the resulting track order.
type Run struct {
	id           string
	sequence     int
	planName     string
	mode         string
	preferredGap int
	fallbackGap  int
	gap          int
	fallback     bool
	seed         int64
	status       RunStatus
	total        int
	limiting     string
	shortfall    int
	trackIDs     []string
	labels       []string
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewRun creates a Run for planName with the given scheduler settings. Call [Run.SetScheduled] or [Run.SetInfeasible] before persisting it.
func NewRun(sequence int, planName, mode string, preferredGap, fallbackGap int, seed int64) *Run {
	now := time.Now()
	return &Run{
		sequence:     sequence,
		planName:     planName,
		mode:         mode,
		preferredGap: preferredGap,
		fallbackGap:  fallbackGap,
		seed:         seed,
		createdAt:    now,
		updatedAt:    now,
	}
}

// SetScheduled marks the run successful with the achieved gap and the ordered track keys.
func (r *Run) SetScheduled(gap int, fallback bool, trackIDs []string) {
	r.status = RunScheduled
	r.gap = gap
	r.fallback = fallback
	r.trackIDs = append([]string(nil), trackIDs...)
	r.total = len(trackIDs)
	r.limiting = ""
	r.shortfall = 0
}

// SetInfeasible marks the run as unschedulable at the gap it last tried.
func (r *Run) SetInfeasible(gap, total int, limiting string, shortfall int) {
	r.status = RunInfeasible
	r.gap = gap
	r.fallback = gap != r.preferredGap
	r.total = total
	r.limiting = limiting
	r.shortfall = shortfall
	r.trackIDs = nil
	r.labels = nil
}

func (r *Run) ID() string            { return r.id }
func (r *Run) Sequence() int         { return r.sequence }
func (r *Run) PlanName() string      { return r.planName }
func (r *Run) Mode() string          { return r.mode }
func (r *Run) PreferredGap() int     { return r.preferredGap }
func (r *Run) FallbackGap() int      { return r.fallbackGap }
func (r *Run) Gap() int              { return r.gap }
func (r *Run) Fallback() bool        { return r.fallback }
func (r *Run) Seed() int64           { return r.seed }
func (r *Run) Status() RunStatus     { return r.status }
func (r *Run) Total() int            { return r.total }
func (r *Run) Limiting() string      { return r.limiting }
func (r *Run) Shortfall() int        { return r.shortfall }
func (r *Run) TrackIDs() []string    { return append([]string(nil), r.trackIDs...) }
func (r *Run) Labels() []string      { return append([]string(nil), r.labels...) }
func (r *Run) CreatedAt() time.Time  { return r.createdAt }
func (r *Run) UpdatedAt() time.Time  { return r.updatedAt }
func (r *Run) DeletedAt() *time.Time { return r.deletedAt }

func (r *Run) SetID(id string)           { r.id = id }
func (r *Run) SetSequence(sequence int)  { r.sequence = sequence }
func (r *Run) SetCreatedAt(t time.Time)  { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time)  { r.updatedAt = t }
func (r *Run) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// SetTrackIDs replaces the ordered track keys. Scheduled runs take their total from it.
func (r *Run) SetTrackIDs(trackIDs []string) {
	r.trackIDs = trackIDs
	if r.status == RunScheduled {
		r.total = len(trackIDs)
	}
}

// SetLabels attaches display labels, one per track ID.
func (r *Run) SetLabels(labels []string) { r.labels = append([]string(nil), labels...) }

// Validate checks required fields and that the status agrees with the stored data.
func (r *Run) Validate() error {
	if r.id == "" {
		return fmt.Errorf("run ID is required")
	}
	if r.planName == "" {
		return fmt.Errorf("plan name is required")
	}
	if r.mode == "" {
		return fmt.Errorf("mode is required")
	}

	switch r.status {
	case RunScheduled:
		if len(r.trackIDs) != r.total {
			return fmt.Errorf("scheduled run has %d tracks, expected %d", len(r.trackIDs), r.total)
		}
		if r.labels != nil && len(r.labels) != len(r.trackIDs) {
			return fmt.Errorf("scheduled run has %d labels for %d tracks", len(r.labels), len(r.trackIDs))
		}
	case RunInfeasible:
		if r.limiting == "" {
			return fmt.Errorf("infeasible run needs a limiting track")
		}
	default:
		return fmt.Errorf("invalid status: %q", r.status)
	}

	return nil
}
