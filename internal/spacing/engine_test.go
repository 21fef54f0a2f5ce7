package spacing

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
)

func newEngine(t *testing.T, opts ...Option) *Engine[string] {
	t.Helper()
	eng, err := New[string](DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return eng
}

func TestConfig(t *testing.T) {
	tc := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"equal gaps", Config{PreferredGap: 2, FallbackGap: 2}, false},
		{"fallback allows adjacency", Config{PreferredGap: 3, FallbackGap: 1}, true},
		{"fallback above preferred", Config{PreferredGap: 2, FallbackGap: 3}, true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[string](tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGap) {
					t.Errorf("expected ErrInvalidGap, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("rounds factor defaults", func(t *testing.T) {
		eng, err := New[string](Config{PreferredGap: 3, FallbackGap: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if eng.Config().RoundsFactor != DefaultRoundsFactor {
			t.Errorf("expected rounds factor %d, got %d", DefaultRoundsFactor, eng.Config().RoundsFactor)
		}
	})
}

func TestParseMode(t *testing.T) {
	tc := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"strict", Strict, false},
		{"", Strict, false},
		{"Randomized", Randomized, false},
		{" random ", Randomized, false},
		{"shuffle", Strict, true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if Randomized.String() != "randomized" || Strict.String() != "strict" {
		t.Error("unexpected mode names")
	}
}

func TestEngineSchedule(t *testing.T) {
	t.Run("preferred gap", func(t *testing.T) {
		res, err := newEngine(t).Schedule(mustCounts(t, e("A", 3), e("B", 2), e("C", 2), e("D", 2)), Strict, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.OK() || res.Gap != 3 || res.Fallback {
			t.Fatalf("expected gap 3 without fallback, got %+v", res)
		}
		if diff := cmp.Diff(split("A B C D A B C D A"), res.Schedule); diff != "" {
			t.Errorf("schedule mismatch (-want +got):\n%s", diff)
		}
		if len(res.Verdicts) != 1 {
			t.Errorf("expected one verdict, got %d", len(res.Verdicts))
		}
	})

	t.Run("fallback gap", func(t *testing.T) {
		res, err := newEngine(t).Schedule(mustCounts(t, e("A", 3), e("B", 3), e("C", 3)), Strict, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.OK() || res.Gap != 2 || !res.Fallback {
			t.Fatalf("expected fallback to gap 2, got %+v", res)
		}
		if diff := cmp.Diff(split("A B C A B C A B C"), res.Schedule); diff != "" {
			t.Errorf("schedule mismatch (-want +got):\n%s", diff)
		}
		if len(res.Verdicts) != 2 || res.Verdicts[0].Feasible {
			t.Errorf("expected an infeasible preferred verdict first, got %+v", res.Verdicts)
		}
	})

	t.Run("both gaps infeasible reports the fallback", func(t *testing.T) {
		res, err := newEngine(t).Schedule(mustCounts(t, e("A", 5), e("B", 2), e("C", 1)), Strict, nil)
		if err != nil {
			t.Fatalf("infeasibility must not be an error, got %v", err)
		}
		if res.OK() || res.Schedule != nil {
			t.Fatalf("expected a report and no schedule, got %+v", res)
		}
		if res.Report.Gap != 2 || res.Report.Limiting != "A" || res.Report.Shortfall != 5 {
			t.Errorf("expected fallback report for A, got %+v", res.Report)
		}
		if got := res.Verdicts[0].Report.Shortfall; got != 9 {
			t.Errorf("expected preferred-gap shortfall 9, got %d", got)
		}
	})

	t.Run("randomized uses the achieved gap", func(t *testing.T) {
		c := mustCounts(t, e("A", 4), e("B", 4), e("C", 4), e("D", 1))
		eng := newEngine(t)

		for seed := uint64(1); seed <= 20; seed++ {
			res, err := eng.Schedule(c, Randomized, seeded(seed))
			if err != nil {
				t.Fatalf("seed %d: unexpected error: %v", seed, err)
			}
			if res.Gap != 2 || res.Mode != Randomized {
				t.Fatalf("seed %d: expected randomized at gap 2, got gap %d mode %v", seed, res.Gap, res.Mode)
			}
			if err := res.Schedule.Validate(2); err != nil {
				t.Errorf("seed %d: %v", seed, err)
			}
			if !res.Schedule.Matches(c) {
				t.Errorf("seed %d: schedule does not match counts", seed)
			}
		}
	})

	t.Run("randomized without a source", func(t *testing.T) {
		_, err := newEngine(t).Schedule(mustCounts(t, e("A", 1)), Randomized, nil)
		if !errors.Is(err, ErrMissingSource) {
			t.Errorf("expected ErrMissingSource, got %v", err)
		}
	})

	t.Run("equal gaps analyze once", func(t *testing.T) {
		eng, err := New[string](Config{PreferredGap: 2, FallbackGap: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		res, err := eng.Schedule(mustCounts(t, e("A", 5), e("B", 1)), Strict, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Verdicts) != 1 || res.Report == nil {
			t.Errorf("expected a single failing verdict, got %+v", res)
		}
	})

	t.Run("logs fallback", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)
		logger.SetLevel(log.DebugLevel)

		eng := newEngine(t, WithLogger(logger))
		if _, err := eng.Schedule(mustCounts(t, e("A", 3), e("B", 3), e("C", 3)), Strict, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "gap infeasible") || !strings.Contains(out, "building schedule") {
			t.Errorf("expected attempt logs, got %q", out)
		}
	})
}
