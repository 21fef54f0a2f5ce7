package spacing

import "fmt"

// Entry is one identity with its required number of appearances.
type Entry[K comparable] struct {
	ID    K
	Count int
}

// Counts is an ordered multiset of identities.
//
// Iteration order is first-seen order, which is what tie-breaks in [Analyze] and
// [BuildStrict] fall back on. The zero value is ready to use.
type Counts[K comparable] struct {
	entries []Entry[K]
	index   map[K]int
}

// NewCounts builds a [Counts] from entries, merging repeated identities.
func NewCounts[K comparable](entries ...Entry[K]) (*Counts[K], error) {
	c := &Counts[K]{}
	for _, e := range entries {
		if err := c.Add(e.ID, e.Count); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends n appearances of id. An identity already present keeps its position and has
// n added to its count. Zero is a no-op.
func (c *Counts[K]) Add(id K, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %v has count %d", ErrInvalidCount, id, n)
	}
	if n == 0 {
		return nil
	}
	if c.index == nil {
		c.index = make(map[K]int)
	}
	if i, ok := c.index[id]; ok {
		c.entries[i].Count += n
		return nil
	}
	c.index[id] = len(c.entries)
	c.entries = append(c.entries, Entry[K]{ID: id, Count: n})
	return nil
}

// Count returns the required appearances of id, or 0 when absent.
func (c *Counts[K]) Count(id K) int {
	if c == nil {
		return 0
	}
	if i, ok := c.index[id]; ok {
		return c.entries[i].Count
	}
	return 0
}

// Len returns the number of distinct identities.
func (c *Counts[K]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Total returns the sum of all counts, which is the length of any schedule built from c.
func (c *Counts[K]) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, e := range c.entries {
		total += e.Count
	}
	return total
}

// Entries returns a copy of the entries in first-seen order.
func (c *Counts[K]) Entries() []Entry[K] {
	if c == nil {
		return nil
	}
	out := make([]Entry[K], len(c.entries))
	copy(out, c.entries)
	return out
}

// with returns a copy of c where the entry at position i has count n.
func (c *Counts[K]) with(i, n int) *Counts[K] {
	out := &Counts[K]{entries: c.Entries(), index: make(map[K]int, len(c.entries))}
	for j, e := range out.entries {
		out.index[e.ID] = j
	}
	out.entries[i].Count = n
	return out
}
