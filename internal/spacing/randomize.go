package spacing

import "fmt"

// DefaultRoundsFactor is the number of swap attempts per schedule entry.
const DefaultRoundsFactor = 8

// Source supplies random integers in [0, n). *rand.Rand from math/rand/v2 satisfies it.
//
// A Source is mutated on every call and must not be shared between concurrent calls.
type Source interface {
	IntN(n int) int
}

// RandomizeOptions tunes [Randomize].
type RandomizeOptions struct {
	RoundsFactor int // swap attempts per entry; DefaultRoundsFactor when <= 0
}

// Randomize shuffles a valid schedule with swaps that keep every identity at least gap
// entries apart.
//
// Each round picks two positions from rng and swaps them only when both moved identities
// stay clear of their other occurrences by gap. A swap is also refused when it increases
// the number of positions p with s[p] == s[p+n], n being the number of distinct
// identities, so the shuffle does not drift back toward the strict round-robin block.
// The result is a best-effort variation of base, not a uniform sample.
//
// base must be valid at gap and hold exactly counts; otherwise [ErrPrecondition] is
// returned. base is not modified.
func Randomize[K comparable](base Schedule[K], counts *Counts[K], gap int, rng Source, opts RandomizeOptions) (Schedule[K], error) {
	if rng == nil {
		return nil, ErrMissingSource
	}
	if gap < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGap, gap)
	}
	if !base.Matches(counts) {
		return nil, fmt.Errorf("%w: base schedule does not match counts", ErrPrecondition)
	}
	if err := base.Validate(gap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	s := base.Clone()
	if len(s) < 2 {
		return s, nil
	}

	factor := opts.RoundsFactor
	if factor <= 0 {
		factor = DefaultRoundsFactor
	}

	period := counts.Len()
	if 2*period > len(s) {
		period = 0
	}

	for round := 0; round < factor*len(s); round++ {
		i, j := rng.IntN(len(s)), rng.IntN(len(s))
		if i > j {
			i, j = j, i
		}
		if i == j || s[i] == s[j] {
			continue
		}
		if !fits(s, s[i], j, i, gap) || !fits(s, s[j], i, j, gap) {
			continue
		}
		if period > 0 {
			before := agreements(s, period, i, j)
			s[i], s[j] = s[j], s[i]
			if agreements(s, period, i, j) > before {
				s[i], s[j] = s[j], s[i]
			}
			continue
		}
		s[i], s[j] = s[j], s[i]
	}

	if err := s.Validate(gap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchedulerInternal, err)
	}

	return s, nil
}

// fits reports whether id could sit at pos with no other occurrence within gap, ignoring
// the slot it is leaving.
func fits[K comparable](s Schedule[K], id K, pos, leaving, gap int) bool {
	lo, hi := max(pos-gap, 0), min(pos+gap, len(s)-1)
	for k := lo; k <= hi; k++ {
		if k == pos || k == leaving {
			continue
		}
		if s[k] == id {
			return false
		}
	}
	return true
}

// agreements counts positions p with s[p] == s[p+period] among the pairs touching i or j.
func agreements[K comparable](s Schedule[K], period, i, j int) int {
	seen := make(map[int]struct{}, 4)
	n := 0
	for _, p := range [...]int{i - period, i, j - period, j} {
		if p < 0 || p+period >= len(s) {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		if s[p] == s[p+period] {
			n++
		}
	}
	return n
}
