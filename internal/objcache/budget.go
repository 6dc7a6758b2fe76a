package objcache

// Budget bounds the transitive loads a single GetLazyObject call may
// trigger and guards against cycles in the on-disk graph (spec §4.4:
// "the max_loads budget caps the transitive loads one call may
// trigger (cycle-safe via skipm, the set of offsets already in flight
// in this call chain)"). A Loader that recurses into neighbor offsets
// passes the same Budget down so the whole call chain shares one
// counter and one visited set.
type Budget struct {
	remaining int
	visited   map[uint32]struct{}
	isLevel0  bool
}

// NewBudget starts a budget with maxLoads remaining loads, optionally
// seeded with a caller-supplied visited set (skipm) so a caller that
// already knows some offsets are in flight can avoid reloading them.
func NewBudget(maxLoads int, skip map[uint32]struct{}, isLevel0 bool) *Budget {
	visited := skip
	if visited == nil {
		visited = make(map[uint32]struct{})
	}
	return &Budget{remaining: maxLoads, visited: visited, isLevel0: isLevel0}
}

// IsLevel0 reports whether this traversal is within layer 0 of the
// proximity graph, where loaders may apply different neighbor caps.
func (b *Budget) IsLevel0() bool { return b.isLevel0 }

// Take consumes one unit of the load budget, reporting false once
// exhausted. A loader must stop recursing into further offsets when
// Take returns false.
func (b *Budget) Take() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Visit marks offset as in flight for this call chain, returning false
// if it was already visited (a cycle) so the caller can skip it.
func (b *Budget) Visit(offset uint32) bool {
	if _, seen := b.visited[offset]; seen {
		return false
	}
	b.visited[offset] = struct{}{}
	return true
}
