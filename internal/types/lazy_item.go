package types

import "sync"

// LazyState is the tag of a LazyItem's current representation.
type LazyState uint8

const (
	// LazyPending means only the file offset is known; the item has not
	// been materialized from disk.
	LazyPending LazyState = iota
	// LazyReady means the item is resident in memory.
	LazyReady
	// LazyNull means there is no item (e.g. an absent parent link).
	LazyNull
)

// LazyItem is a tagged cell over a persistable T (spec §3 "Lazy Item";
// §9 "Lazy cyclic graphs"). Nodes hold LazyItem-backed offset keys rather
// than direct pointers, so the object cache remains the sole owner and
// can break reference cycles and evict cold entries.
//
// The reference implementation guards the Ready variant's offset cell
// with an RwLock<Option<u32>> written lazily on first serialize; Go has
// no analogous zero-cost RwLock<Option<T>>, so this uses a mutex guarding
// an explicit "offset known" flag instead.
type LazyItem[T any] struct {
	mu sync.RWMutex

	state State

	offset       FileOffset
	offsetKnown  bool
	data         T
	versionID    VersionHash
	persistFlag  bool
	isSerialized bool
}

// State is exported so callers can branch without taking the lock twice.
type State = LazyState

// NewPending creates a LazyItem referencing offset without loading it.
func NewPending[T any](offset FileOffset) *LazyItem[T] {
	return &LazyItem[T]{state: LazyPending, offset: offset, offsetKnown: true}
}

// NewReady creates a LazyItem already holding data, not yet serialized.
func NewReady[T any](data T, version VersionHash) *LazyItem[T] {
	return &LazyItem[T]{state: LazyReady, data: data, versionID: version, persistFlag: true}
}

// Null returns the Null-state LazyItem (spec: "parent link ... or none").
func Null[T any]() *LazyItem[T] {
	return &LazyItem[T]{state: LazyNull}
}

// IsNull reports whether the item is the Null variant.
func (li *LazyItem[T]) IsNull() bool {
	if li == nil {
		return true
	}
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.state == LazyNull
}

// Kind returns the current tag.
func (li *LazyItem[T]) Kind() LazyState {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.state
}

// Offset returns the known file offset, if any. ok is false for an
// unserialized Ready item or a Null item.
func (li *LazyItem[T]) Offset() (FileOffset, bool) {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.offset, li.offsetKnown
}

// Resolve transitions Pending -> Ready by installing loaded data,
// called by the object cache after a successful disk read.
func (li *LazyItem[T]) Resolve(data T) {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.state = LazyReady
	li.data = data
	li.isSerialized = true
}

// Get returns the materialized data and whether it is present (Ready).
func (li *LazyItem[T]) Get() (T, bool) {
	li.mu.RLock()
	defer li.mu.RUnlock()
	if li.state != LazyReady {
		var zero T
		return zero, false
	}
	return li.data, true
}

// MarkDirty records that an in-memory mutation must be flushed
// (spec: "persist_flag records that an in-memory mutation must be
// flushed").
func (li *LazyItem[T]) MarkDirty() {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.persistFlag = true
}

// TakeDirty clears and returns the persist flag, used by the writer to
// decide whether a Ready item needs re-serialization.
func (li *LazyItem[T]) TakeDirty() bool {
	li.mu.Lock()
	defer li.mu.Unlock()
	dirty := li.persistFlag
	li.persistFlag = false
	return dirty
}

// MarkSerialized installs offset and flips isSerialized true, called once
// on first write (spec: "is_serialized flips true on first write").
func (li *LazyItem[T]) MarkSerialized(offset FileOffset, version VersionHash) {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.offset = offset
	li.offsetKnown = true
	li.isSerialized = true
	li.versionID = version
}

// IsSerialized reports whether the item has ever been written to disk.
func (li *LazyItem[T]) IsSerialized() bool {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.isSerialized
}

// VersionID returns the version that produced the in-memory data.
func (li *LazyItem[T]) VersionID() VersionHash {
	li.mu.RLock()
	defer li.mu.RUnlock()
	return li.versionID
}
