package graph

import "github.com/Aman-CERP/vectorcore/internal/types"

// Candidate pairs a node offset with its MetricResult against the
// query, used by the best-first search frontier and the final result
// set.
type Candidate struct {
	Offset types.FileOffset
	Result types.MetricResult
}

// CandidateSet is a capacity-bounded, rank-sorted (best first) set of
// candidates, used for both the ef-bounded best-first search frontier
// (spec §4.6 "ef_construction-bounded best-first search") and the
// ef_search frontier at layer 0. Kept as a sorted slice rather than a
// heap: ef is small (tens to low hundreds) so linear insertion is
// simple and fast enough, and the teacher's own store code favors
// straightforward slice operations over heap machinery at this scale.
type CandidateSet struct {
	cap   int
	items []Candidate
	seen  map[types.FileOffset]struct{}
}

// NewCandidateSet returns an empty set bounded to capacity.
func NewCandidateSet(capacity int) *CandidateSet {
	return &CandidateSet{cap: capacity, seen: make(map[types.FileOffset]struct{})}
}

// Seen reports whether offset has already been inserted (including if
// later evicted for being worse than the current worst kept member).
func (cs *CandidateSet) Seen(offset types.FileOffset) bool {
	_, ok := cs.seen[offset]
	return ok
}

// MarkSeen records offset as visited without necessarily keeping it
// (used to avoid re-expanding nodes that failed a metadata filter).
func (cs *CandidateSet) MarkSeen(offset types.FileOffset) {
	cs.seen[offset] = struct{}{}
}

// Insert adds c, keeping the set sorted best-first and truncated to
// capacity. Returns true if c was kept (within capacity or better than
// the current worst member).
func (cs *CandidateSet) Insert(c Candidate) bool {
	cs.seen[c.Offset] = struct{}{}
	i := 0
	for i < len(cs.items) && cs.items[i].Result.Compare(c.Result) {
		i++
	}
	if i >= cs.cap {
		return false
	}
	cs.items = append(cs.items, Candidate{})
	copy(cs.items[i+1:], cs.items[i:])
	cs.items[i] = c
	if len(cs.items) > cs.cap {
		cs.items = cs.items[:cs.cap]
	}
	return true
}

// Worst returns the lowest-ranked kept member, or false if empty.
func (cs *CandidateSet) Worst() (Candidate, bool) {
	if len(cs.items) == 0 {
		return Candidate{}, false
	}
	return cs.items[len(cs.items)-1], true
}

// Len returns the number of kept members.
func (cs *CandidateSet) Len() int { return len(cs.items) }

// Items returns the kept members, best first.
func (cs *CandidateSet) Items() []Candidate { return cs.items }
