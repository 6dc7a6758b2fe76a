package graph

import (
	"sync"

	"github.com/Aman-CERP/vectorcore/internal/types"
)

// Node is a proximity-graph node (spec §3 "Proximity-Graph Node"): a
// node identity, a quantized vector, a layer number, a bounded
// neighbor set, parent/child links, and the metadata dims a filter
// matches against. Offset is the synthetic, monotone key this build
// addresses nodes by in the object cache and in neighbor lists —
// standing in for the on-disk content-addressed prop-file offset the
// original design persists nodes at.
type Node struct {
	mu sync.RWMutex

	Offset    types.FileOffset
	ID        types.VectorID
	IsRoot    bool
	Layer     int
	Storage   *types.Storage
	RawOffset types.FileOffset
	Dims      []uint32

	Neighbors []types.FileOffset

	// Parent and Child hold the layer-chain links behind a LazyItem
	// (spec §3 "Lazy cyclic graphs": "Nodes reference neighbors,
	// parents, and children by file offsets held behind a Lazy Item").
	// Both are always Ready or Null in this build since node reload from
	// disk is not implemented (see objcache's always-erroring Loader);
	// the tri-state still distinguishes "no parent/child" from "not yet
	// resolved" the way the reference implementation's Pending variant
	// would once disk-backed reload exists.
	Parent *types.LazyItem[types.FileOffset]
	Child  *types.LazyItem[types.FileOffset]

	Version types.VersionHash
}

// SetParent installs offset as this node's parent link.
func (n *Node) SetParent(offset types.FileOffset, version types.VersionHash) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Parent = types.NewReady(offset, version)
}

// ParentOffset returns the parent's offset, false if there is none.
func (n *Node) ParentOffset() (types.FileOffset, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.Parent == nil {
		return 0, false
	}
	return n.Parent.Get()
}

// SetChild installs offset as this node's child link.
func (n *Node) SetChild(offset types.FileOffset, version types.VersionHash) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Child = types.NewReady(offset, version)
}

// ChildOffset returns the child's offset, false if there is none.
func (n *Node) ChildOffset() (types.FileOffset, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.Child == nil {
		return 0, false
	}
	return n.Child.Get()
}

// AddNeighbor appends target to the neighbor list, capped at cap, and
// reports whether target is in the list afterwards. When the list is
// full and target is absent, it leaves the list unchanged and returns
// false; callers then fall back to diversification pruning.
func (n *Node) AddNeighbor(target types.FileOffset, cap int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, existing := range n.Neighbors {
		if existing == target {
			return true
		}
	}
	if len(n.Neighbors) >= cap {
		return false
	}
	n.Neighbors = append(n.Neighbors, target)
	return true
}

// SetNeighbors replaces the neighbor list wholesale, used after
// diversification pruning picks a new kept set.
func (n *Node) SetNeighbors(neighbors []types.FileOffset) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Neighbors = neighbors
}

// NeighborsSnapshot returns a copy of the current neighbor list.
func (n *Node) NeighborsSnapshot() []types.FileOffset {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]types.FileOffset, len(n.Neighbors))
	copy(out, n.Neighbors)
	return out
}
