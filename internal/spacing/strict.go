package spacing

import (
	"container/heap"
	"fmt"
)

// candidate is an identity waiting to be placed.
type candidate struct {
	entry     int // position in first-seen order
	remaining int
	ready     int // first step at which it may be placed again
}

// pool orders candidates by remaining count, largest first, then by first-seen order.
type pool []*candidate

func (p pool) Len() int { return len(p) }

func (p pool) Less(i, j int) bool {
	if p[i].remaining != p[j].remaining {
		return p[i].remaining > p[j].remaining
	}
	return p[i].entry < p[j].entry
}

func (p pool) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p *pool) Push(x any) { *p = append(*p, x.(*candidate)) }

func (p *pool) Pop() any {
	old := *p
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*p = old[:n-1]
	return c
}

// BuildStrict lays out counts so that every identity has at least gap other entries between
// its occurrences.
//
// At each step the eligible identity with the most remaining occurrences is placed; ties go
// to the identity seen first. A placed identity with occurrences left waits in a cooldown
// queue until step+gap+1. The result is deterministic for a given [Counts].
//
// counts must be feasible at gap according to [Analyze]; otherwise [ErrPrecondition] is
// returned. Running out of eligible identities on feasible input is reported as
// [ErrSchedulerInternal] rather than by placing a repeat early.
func BuildStrict[K comparable](counts *Counts[K], gap int) (Schedule[K], error) {
	if gap < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGap, gap)
	}
	if v := Analyze(counts, gap); !v.Feasible {
		return nil, fmt.Errorf("%w: %s", ErrPrecondition, v.Report)
	}

	entries := counts.Entries()
	total := counts.Total()

	p := make(pool, 0, len(entries))
	for i, e := range entries {
		if e.Count > 0 {
			p = append(p, &candidate{entry: i, remaining: e.Count})
		}
	}
	heap.Init(&p)

	// Release steps grow with the step index, so a FIFO is already sorted by ready.
	var cooldown []*candidate

	out := make(Schedule[K], 0, total)
	for step := 0; step < total; step++ {
		for len(cooldown) > 0 && cooldown[0].ready <= step {
			heap.Push(&p, cooldown[0])
			cooldown = cooldown[1:]
		}

		if p.Len() == 0 {
			return nil, fmt.Errorf("%w: no eligible item at step %d of %d with %d cooling down (gap %d)",
				ErrSchedulerInternal, step, total, len(cooldown), gap)
		}

		c := heap.Pop(&p).(*candidate)
		out = append(out, entries[c.entry].ID)
		c.remaining--
		if c.remaining > 0 {
			c.ready = step + gap + 1
			cooldown = append(cooldown, c)
		}
	}

	if err := out.Validate(gap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchedulerInternal, err)
	}

	return out, nil
}
