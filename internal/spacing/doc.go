// Package spacing orders repeated items so that no item recurs too soon.
//
// Callers describe what they want as [Counts]: an ordered multiset of identities, each with
// a required number of appearances. The package answers three questions about it:
//
//  1. [Analyze] : can the items be laid out with at least gap other items between any two
//     occurrences of the same identity? When they cannot, the returned [Report] names the
//     limiting identity and the two ways out (add other occurrences, or reduce it).
//  2. [BuildStrict] : a deterministic layout for a feasible gap, built greedily from a
//     priority selection plus a cooldown queue.
//  3. [Randomize] : a shuffled variant of a strict layout, produced by swaps that never
//     break the gap.
//
// [Engine] ties them together: it tries the preferred gap, falls back to the secondary one,
// and reports the fallback analysis when neither works.
//
// # Gap semantics
//
// A gap is the number of other entries strictly between two occurrences. For consecutive
// positions p1 < p2 of one identity a schedule is valid iff p2-p1-1 >= gap.
//
// # Concurrency
//
// Nothing here holds state between calls. Concurrent calls are safe as long as each call
// gets its own [Counts] and its own [Source].
package spacing
