package spacing

import "fmt"

// Schedule is an ordered sequence of identities. Schedules returned by this package are
// never modified after they are returned.
type Schedule[K comparable] []K

// Validate reports the first pair of occurrences closer than gap, wrapped in
// [ErrGapViolation].
func (s Schedule[K]) Validate(gap int) error {
	last := make(map[K]int)
	for i, id := range s {
		if p, ok := last[id]; ok && i-p-1 < gap {
			return fmt.Errorf("%w: %v at positions %d and %d (%d between, need %d)",
				ErrGapViolation, id, p, i, i-p-1, gap)
		}
		last[id] = i
	}
	return nil
}

// MinGap returns the smallest number of entries between two occurrences of the same
// identity, or -1 when nothing repeats.
func (s Schedule[K]) MinGap() int {
	smallest := -1
	last := make(map[K]int)
	for i, id := range s {
		if p, ok := last[id]; ok {
			if g := i - p - 1; smallest < 0 || g < smallest {
				smallest = g
			}
		}
		last[id] = i
	}
	return smallest
}

// Occurrences maps each identity to its positions in ascending order.
func (s Schedule[K]) Occurrences() map[K][]int {
	out := make(map[K][]int)
	for i, id := range s {
		out[id] = append(out[id], i)
	}
	return out
}

// Tally counts the schedule's identities, preserving first appearance order.
func (s Schedule[K]) Tally() *Counts[K] {
	c := &Counts[K]{}
	for _, id := range s {
		_ = c.Add(id, 1)
	}
	return c
}

// Matches reports whether s contains every identity of c exactly Count times and nothing
// else.
func (s Schedule[K]) Matches(c *Counts[K]) bool {
	if len(s) != c.Total() {
		return false
	}
	tally := s.Tally()
	if tally.Len() != c.Len() {
		return false
	}
	for _, e := range c.Entries() {
		if tally.Count(e.ID) != e.Count {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s.
func (s Schedule[K]) Clone() Schedule[K] {
	if s == nil {
		return nil
	}
	out := make(Schedule[K], len(s))
	copy(out, s)
	return out
}
