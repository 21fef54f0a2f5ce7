package tasks

import (
	"fmt"

	"github.com/desertthunder/looper/internal/models"
	"github.com/desertthunder/looper/internal/spacing"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	AnalyzePlan Phase = iota
	SchedulePlan
	RecordRun
	BatchPlan
)

func (p Phase) String() string {
	switch p {
	case AnalyzePlan:
		return "analyze_plan"
	case SchedulePlan:
		return "schedule_plan"
	case RecordRun:
		return "record_run"
	case BatchPlan:
		return "batch_plan"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}

func analyzeUpdate(step, total int, plan *models.Plan) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzePlan,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Analyzing %s (%d tracks, %d plays)...", plan.Name, len(plan.Entries), plan.Total()),
	}
}

func scheduleUpdate(step, total int, plan *models.Plan, res spacing.Result[string]) ProgressUpdate {
	msg := fmt.Sprintf("Scheduled %s at gap %d", plan.Name, res.Gap)
	if !res.OK() {
		msg = fmt.Sprintf("Cannot schedule %s: %s", plan.Name, res.Report)
	}
	return ProgressUpdate{
		Phase:   SchedulePlan,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}

func recordUpdate(step, total int, run *models.Run) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordRun,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Recorded run #%d", run.Sequence()),
		Data:    run,
	}
}

func batchCompletedUpdate(step, total int, name string, gap int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchPlan,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (gap %d)", step, total, name, gap),
	}
}

func batchInfeasibleUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchPlan,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ! %s is infeasible", step, total, name),
	}
}

func batchFailedUpdate(step, total int, source string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchPlan,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, source, err),
	}
}
