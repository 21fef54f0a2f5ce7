package spacing

import "fmt"

// Verdict is the outcome of [Analyze] for one gap.
type Verdict[K comparable] struct {
	Feasible bool
	Gap      int
	Total    int
	Report   *Report[K] // nil when Feasible
}

// Report explains why a gap is infeasible and what would fix it.
type Report[K comparable] struct {
	Limiting  K   // first-seen identity holding the largest count
	Count     int // its count
	Ties      int // identities sharing that count, Limiting included
	Gap       int
	Total     int
	Required  int // shortest schedule that fits Count occurrences at this gap
	Shortfall int // other occurrences to add, Count held fixed
	Reduction int // occurrences of Limiting to remove, others held fixed; valid when Reducible
	Reducible bool
}

// MaxCount is the largest count Limiting could keep on its own, or 0 when reducing it alone
// cannot fix the gap.
func (r *Report[K]) MaxCount() int {
	if !r.Reducible {
		return 0
	}
	return r.Count - r.Reduction
}

// Others is the number of occurrences that are not Limiting.
func (r *Report[K]) Others() int {
	return r.Total - r.Count
}

// String renders the report as a single actionable sentence.
func (r *Report[K]) String() string {
	msg := fmt.Sprintf("%v appears %d times with %d other occurrences; gap %d needs at least %d entries, add %d more occurrences of other items",
		r.Limiting, r.Count, r.Others(), r.Gap, r.Required, r.Shortfall)
	if r.Reducible {
		msg += fmt.Sprintf(" or reduce %v to %d (-%d)", r.Limiting, r.MaxCount(), r.Reduction)
	}
	if r.Ties > 1 {
		msg += fmt.Sprintf(" (%d items share the top count)", r.Ties)
	}
	return msg
}

// Err wraps the report in [ErrInfeasible].
func (r *Report[K]) Err() error {
	return fmt.Errorf("%w: %s", ErrInfeasible, r)
}

// Analyze decides whether counts can be spaced at gap.
//
// With f the largest count, k the number of identities holding it and L the total, the
// shortest valid schedule has (f-1)(gap+1)+k entries: f-1 full frames of gap+1 slots led by
// the top identities, then one final entry per top identity. The gap is feasible iff that
// fits in L. For k = 1 this is f <= ceil(L/(gap+1)). A negative gap is treated as 0.
func Analyze[K comparable](c *Counts[K], gap int) Verdict[K] {
	if gap < 0 {
		gap = 0
	}

	v := Verdict[K]{Gap: gap, Total: c.Total()}
	limit, f, k := top(c)
	if f == 0 {
		v.Feasible = true
		return v
	}

	need := required(f, k, gap)
	if need <= v.Total {
		v.Feasible = true
		return v
	}

	r := &Report[K]{
		Limiting:  c.entries[limit].ID,
		Count:     f,
		Ties:      k,
		Gap:       gap,
		Total:     v.Total,
		Required:  need,
		Shortfall: need - v.Total,
	}

	for n := f - 1; n >= 1; n-- {
		if feasible(c.with(limit, n), gap) {
			r.Reduction = f - n
			r.Reducible = true
			break
		}
	}

	v.Report = r
	return v
}

// top returns the position of the first-seen largest count, that count, and how many
// identities share it.
func top[K comparable](c *Counts[K]) (limit, f, k int) {
	limit = -1
	for i, e := range c.Entries() {
		switch {
		case e.Count > f:
			limit, f, k = i, e.Count, 1
		case e.Count == f && f > 0:
			k++
		}
	}
	return limit, f, k
}

func required(f, k, gap int) int {
	return (f-1)*(gap+1) + k
}

func feasible[K comparable](c *Counts[K], gap int) bool {
	_, f, k := top(c)
	return f == 0 || required(f, k, gap) <= c.Total()
}
