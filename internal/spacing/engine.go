package spacing

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// MinGap is the smallest gap an [Engine] will ever schedule at.
const MinGap = 2

// Mode selects how a feasible schedule is produced.
type Mode int

const (
	Strict Mode = iota
	Randomized
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Randomized:
		return "randomized"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "strict" or "randomized" (also "random"), case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return Strict, nil
	case "randomized", "random":
		return Randomized, nil
	default:
		return Strict, fmt.Errorf("unknown mode %q", s)
	}
}

// Config holds the gaps an [Engine] tries, in order.
type Config struct {
	PreferredGap int
	FallbackGap  int
	RoundsFactor int
}

// DefaultConfig returns the preferred gap of 3 with a fallback of 2.
func DefaultConfig() Config {
	return Config{PreferredGap: 3, FallbackGap: 2, RoundsFactor: DefaultRoundsFactor}
}

// Validate checks MinGap <= FallbackGap <= PreferredGap.
func (c Config) Validate() error {
	if c.FallbackGap < MinGap {
		return fmt.Errorf("%w: fallback gap %d is below %d", ErrInvalidGap, c.FallbackGap, MinGap)
	}
	if c.PreferredGap < c.FallbackGap {
		return fmt.Errorf("%w: preferred gap %d is below fallback gap %d", ErrInvalidGap, c.PreferredGap, c.FallbackGap)
	}
	return nil
}

// Result is the outcome of [Engine.Schedule]. Exactly one of Schedule and Report is set.
type Result[K comparable] struct {
	Schedule Schedule[K]
	Gap      int  // gap the schedule satisfies
	Fallback bool // true when the preferred gap was infeasible
	Mode     Mode
	Report   *Report[K]   // fallback-gap analysis when neither gap works
	Verdicts []Verdict[K] // one per gap tried, in order
}

// OK reports whether a schedule was produced.
func (r Result[K]) OK() bool { return r.Report == nil }

// Engine tries the preferred gap, then the fallback gap, and builds a schedule at the first
// that is feasible. It keeps no state between calls.
type Engine[K comparable] struct {
	cfg    Config
	logger *log.Logger
}

// Option configures an [Engine].
type Option func(*engineOptions)

type engineOptions struct {
	logger *log.Logger
}

// WithLogger routes gap attempts and fallbacks to l.
func WithLogger(l *log.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// New validates cfg and returns an [Engine].
func New[K comparable](cfg Config, opts ...Option) (*Engine[K], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.RoundsFactor <= 0 {
		cfg.RoundsFactor = DefaultRoundsFactor
	}

	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine[K]{cfg: cfg, logger: o.logger}, nil
}

// Config returns the engine's validated configuration.
func (e *Engine[K]) Config() Config { return e.cfg }

// Analyze runs [Analyze] at the preferred and fallback gaps, skipping the fallback when it
// equals the preferred gap.
func (e *Engine[K]) Analyze(counts *Counts[K]) []Verdict[K] {
	verdicts := []Verdict[K]{Analyze(counts, e.cfg.PreferredGap)}
	if e.cfg.FallbackGap != e.cfg.PreferredGap {
		verdicts = append(verdicts, Analyze(counts, e.cfg.FallbackGap))
	}
	return verdicts
}

// Schedule produces a schedule for counts.
//
// Infeasibility at both gaps is not an error: the returned [Result] carries the fallback
// gap's [Report], which is the binding one. Errors are reserved for a missing source in
// [Randomized] mode and for internal scheduler failures.
func (e *Engine[K]) Schedule(counts *Counts[K], mode Mode, rng Source) (Result[K], error) {
	if mode == Randomized && rng == nil {
		return Result[K]{}, ErrMissingSource
	}

	res := Result[K]{Mode: mode}
	for _, v := range e.Analyze(counts) {
		res.Verdicts = append(res.Verdicts, v)
		if !v.Feasible {
			e.warn("gap infeasible", "gap", v.Gap, "limiting", v.Report.Limiting, "shortfall", v.Report.Shortfall)
			continue
		}

		res.Gap = v.Gap
		res.Fallback = v.Gap != e.cfg.PreferredGap
		e.debug("building schedule", "gap", v.Gap, "mode", mode, "total", v.Total)

		s, err := BuildStrict(counts, v.Gap)
		if err != nil {
			return Result[K]{}, err
		}

		if mode == Randomized {
			s, err = Randomize(s, counts, v.Gap, rng, RandomizeOptions{RoundsFactor: e.cfg.RoundsFactor})
			if err != nil {
				return Result[K]{}, err
			}
		}

		res.Schedule = s
		return res, nil
	}

	res.Report = res.Verdicts[len(res.Verdicts)-1].Report
	return res, nil
}

func (e *Engine[K]) debug(msg string, kv ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, kv...)
	}
}

func (e *Engine[K]) warn(msg string, kv ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, kv...)
	}
}
