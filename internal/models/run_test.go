package models

import (
	"testing"
)

func TestRun(t *testing.T) {
	t.Run("scheduled", func(t *testing.T) {
		r := NewRun(1, "gym", "strict", 3, 2, 0)
		r.SetID("id")
		r.SetScheduled(2, true, []string{"a", "b", "a"})

		if r.Status() != RunScheduled || r.Total() != 3 || !r.Fallback() {
			t.Errorf("unexpected run state: status=%s total=%d fallback=%v", r.Status(), r.Total(), r.Fallback())
		}
		if err := r.Validate(); err != nil {
			t.Errorf("expected valid run, got %v", err)
		}

		r.SetLabels([]string{"A"})
		if err := r.Validate(); err == nil {
			t.Error("expected label count mismatch")
		}
	})

	t.Run("track ids are copied", func(t *testing.T) {
		ids := []string{"a", "b"}
		r := NewRun(1, "gym", "strict", 3, 2, 0)
		r.SetScheduled(3, false, ids)
		ids[0] = "z"
		if r.TrackIDs()[0] != "a" {
			t.Error("SetScheduled should copy track ids")
		}
	})

	t.Run("infeasible", func(t *testing.T) {
		r := NewRun(1, "gym", "randomized", 3, 2, 9)
		r.SetID("id")
		r.SetInfeasible(2, 8, "a", 5)

		if r.Status() != RunInfeasible || !r.Fallback() || r.Limiting() != "a" || r.Shortfall() != 5 {
			t.Errorf("unexpected run state: %+v", r)
		}
		if len(r.TrackIDs()) != 0 {
			t.Error("infeasible runs carry no tracks")
		}
		if err := r.Validate(); err != nil {
			t.Errorf("expected valid run, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name string
			run  func() *Run
		}{
			{"missing id", func() *Run {
				r := NewRun(1, "gym", "strict", 3, 2, 0)
				r.SetScheduled(3, false, nil)
				return r
			}},
			{"missing plan", func() *Run {
				r := NewRun(1, "", "strict", 3, 2, 0)
				r.SetID("id")
				r.SetScheduled(3, false, nil)
				return r
			}},
			{"no status", func() *Run {
				r := NewRun(1, "gym", "strict", 3, 2, 0)
				r.SetID("id")
				return r
			}},
			{"infeasible without limiting", func() *Run {
				r := NewRun(1, "gym", "strict", 3, 2, 0)
				r.SetID("id")
				r.SetInfeasible(2, 3, "", 1)
				return r
			}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.run().Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})
}
