package models

import (
	"errors"
	"testing"

	"github.com/desertthunder/looper/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func testPlan(t *testing.T) *Plan {
	t.Helper()
	p := NewPlan("gym", "")
	for _, e := range []struct {
		track Track
		n     int
	}{
		{Track{ID: "a", Title: "Alpha", Artist: "One"}, 3},
		{Track{ID: "b", Title: "Beta", Artist: "Two"}, 2},
		{Track{Title: "Gamma", Artist: "Three"}, 1},
	} {
		if err := p.Add(e.track, e.n); err != nil {
			t.Fatalf("failed to add %s: %v", e.track.Title, err)
		}
	}
	return p
}

func keys(p *Plan) []string {
	out := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		out = append(out, e.Track().Key())
	}
	return out
}

func TestTrack(t *testing.T) {
	tc := []struct {
		name      string
		track     Track
		wantKey   string
		wantLabel string
	}{
		{"explicit id", Track{ID: "x1", Title: "Song", Artist: "Band"}, "x1", "Song – Band"},
		{"derived key", Track{Title: " Song ", Artist: "BAND"}, "song|band", " Song  – BAND"},
		{"title only", Track{Title: "Song"}, "song|", "Song"},
		{"artist only", Track{ID: "x", Artist: "Band"}, "x", "Band"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.Key(); got != tt.wantKey {
				t.Errorf("Key() = %q, want %q", got, tt.wantKey)
			}
			if got := tt.track.Label(); got != tt.wantLabel {
				t.Errorf("Label() = %q, want %q", got, tt.wantLabel)
			}
		})
	}
}

func TestPlan(t *testing.T) {
	t.Run("Add merges and keeps order", func(t *testing.T) {
		p := testPlan(t)
		if err := p.Add(Track{ID: "a", Title: "Alpha", Artist: "One"}, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b", "gamma|three"}, keys(p)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		if e, _ := p.Lookup("a"); e.Count != 5 {
			t.Errorf("expected merged count 5, got %d", e.Count)
		}
		if p.Total() != 8 {
			t.Errorf("expected total 8, got %d", p.Total())
		}
	})

	t.Run("Add rejects bad input", func(t *testing.T) {
		p := NewPlan("x", "")
		if err := p.Add(Track{ID: "a"}, 0); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for zero count, got %v", err)
		}
		if err := p.Add(Track{Artist: "Band"}, 1); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing title, got %v", err)
		}
	})

	t.Run("SetCount", func(t *testing.T) {
		p := testPlan(t)
		if err := p.SetCount("b", 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e, _ := p.Lookup("b"); e.Count != 4 {
			t.Errorf("expected 4, got %d", e.Count)
		}
		if err := p.SetCount("b", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.Lookup("b"); ok {
			t.Error("zero count should remove the entry")
		}
		if err := p.SetCount("missing", 1); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("Substitute part", func(t *testing.T) {
		p := testPlan(t)
		moved, err := p.Substitute("a", Track{ID: "d", Title: "Delta", Artist: "Four"}, 2)
		if err != nil || moved != 2 {
			t.Fatalf("Substitute() = %d, %v", moved, err)
		}
		if e, _ := p.Lookup("a"); e.Count != 1 {
			t.Errorf("expected a to keep 1 play, got %d", e.Count)
		}
		if e, _ := p.Lookup("d"); e.Count != 2 {
			t.Errorf("expected d to gain 2 plays, got %d", e.Count)
		}
		if p.Total() != 6 {
			t.Errorf("substitution should preserve total, got %d", p.Total())
		}
	})

	t.Run("Substitute all into existing", func(t *testing.T) {
		p := testPlan(t)
		moved, err := p.Substitute("gamma|three", Track{ID: "b"}, 0)
		if err != nil || moved != 1 {
			t.Fatalf("Substitute() = %d, %v", moved, err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, keys(p)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		if e, _ := p.Lookup("b"); e.Count != 3 {
			t.Errorf("expected b to have 3 plays, got %d", e.Count)
		}
	})

	t.Run("Substitute errors", func(t *testing.T) {
		p := testPlan(t)
		if _, err := p.Substitute("a", Track{ID: "d", Title: "Delta"}, 9); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := p.Substitute("zzz", Track{ID: "d", Title: "Delta"}, 1); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
		if moved, err := p.Substitute("a", Track{ID: "a"}, 1); err != nil || moved != 0 {
			t.Errorf("self substitution should be a no-op, got %d, %v", moved, err)
		}
	})

	t.Run("failed Substitute leaves the plan unchanged", func(t *testing.T) {
		tc := []struct {
			name        string
			replacement Track
			n           int
		}{
			{"empty replacement, part", Track{}, 2},
			{"empty replacement, all", Track{}, 0},
			{"artist only", Track{Artist: "Band"}, 3},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				p := testPlan(t)
				before := append([]PlanEntry(nil), p.Entries...)

				moved, err := p.Substitute("a", tt.replacement, tt.n)
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				if moved != 0 {
					t.Errorf("expected nothing moved, got %d", moved)
				}
				if p.Total() != 6 {
					t.Errorf("expected total 6, got %d", p.Total())
				}
				if diff := cmp.Diff(before, p.Entries); diff != "" {
					t.Errorf("entries changed (-want +got):\n%s", diff)
				}
			})
		}
	})

	t.Run("Remove", func(t *testing.T) {
		p := testPlan(t)
		if err := p.Remove("a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"b", "gamma|three"}, keys(p)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		if err := p.Remove("a"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name string
			plan Plan
			ok   bool
		}{
			{"valid", *testPlan(t), true},
			{"empty tracks", Plan{Name: "x"}, true},
			{"missing name", Plan{Entries: []PlanEntry{{ID: "a", Count: 1}}}, false},
			{"zero count", Plan{Name: "x", Entries: []PlanEntry{{ID: "a", Count: 0}}}, false},
			{"duplicate key", Plan{Name: "x", Entries: []PlanEntry{{ID: "a", Count: 1}, {ID: "a", Count: 2}}}, false},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.plan.Validate()
				if (err == nil) != tt.ok {
					t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
				}
			})
		}
	})
}
