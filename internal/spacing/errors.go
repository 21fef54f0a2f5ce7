package spacing

import "errors"

var (
	// ErrInfeasible marks a count set that cannot be spaced at the requested gap.
	ErrInfeasible = errors.New("counts cannot be spaced at this gap")

	// ErrPrecondition marks a scheduler call made without a passing feasibility check.
	ErrPrecondition = errors.New("scheduler precondition violated")

	// ErrSchedulerInternal marks a disagreement between the analyzer and a scheduler.
	// It always indicates a bug, never bad input.
	ErrSchedulerInternal = errors.New("scheduler internal error")

	ErrInvalidGap    = errors.New("invalid gap")
	ErrInvalidCount  = errors.New("invalid count")
	ErrMissingSource = errors.New("randomized mode requires a random source")
	ErrGapViolation  = errors.New("gap violated")
)
