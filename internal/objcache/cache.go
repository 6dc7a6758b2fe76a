// Package objcache holds the soft, lazily-populated cache mapping a
// file offset to its materialized node, addressed by LazyItem-held
// offsets (spec §4.4 "Object Cache"). In this build only the
// proximity-graph index (internal/graph) constructs one, over its
// Node type; the sparse and TF-IDF indexes hold their radix tries as
// plain in-memory maps with no offset-addressed cache, since neither
// reloads its trie from disk.
package objcache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// Loader materializes the node at offset from disk. It receives the
// shared Budget so it can recurse into neighbor offsets (e.g. to warm
// a node's immediate neighbors) without blowing past the caller's
// max_loads limit or re-entering a cycle.
type Loader[T any] func(offset types.FileOffset, budget *Budget) (T, error)

// ErrCycleDetected is returned when an offset is revisited within the
// same GetLazyObject call chain.
var ErrCycleDetected = coreerrors.GraphIntegrity(coreerrors.ErrCodeCycleDetected, "cycle detected while loading lazy object", nil)

type inflight[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Cache is a soft, size-bounded LRU of materialized nodes with
// single-flight load coalescing: concurrent GetLazyObject calls for
// the same cold offset block on one disk read rather than racing
// (spec §4.4: "Concurrent readers of the same key coalesce on a
// single load").
type Cache[T any] struct {
	lru    *lru.Cache[types.FileOffset, T]
	loader Loader[T]

	mu        sync.Mutex
	inFlight  map[types.FileOffset]*inflight[T]
}

// New returns a Cache holding up to size resident nodes, materializing
// misses with loader.
func New[T any](size int, loader Loader[T]) (*Cache[T], error) {
	l, err := lru.New[types.FileOffset, T](size)
	if err != nil {
		return nil, coreerrors.InvalidParams("invalid object cache size", err)
	}
	return &Cache[T]{lru: l, loader: loader, inFlight: make(map[types.FileOffset]*inflight[T])}, nil
}

// GetLazyObject returns the node at offset, materializing it from disk
// via the Loader when it is not already resident. maxLoads bounds the
// transitive loads the call may trigger; skip seeds the cycle-detection
// set (pass nil for a fresh one); isLevel0 is threaded through to the
// loader for layer-0-specific neighbor caps.
func (c *Cache[T]) GetLazyObject(offset types.FileOffset, maxLoads int, skip map[uint32]struct{}, isLevel0 bool) (T, error) {
	if v, ok := c.lru.Get(offset); ok {
		return v, nil
	}

	c.mu.Lock()
	if call, ok := c.inFlight[offset]; ok {
		c.mu.Unlock()
		<-call.done
		return call.val, call.err
	}
	call := &inflight[T]{done: make(chan struct{})}
	c.inFlight[offset] = call
	c.mu.Unlock()

	budget := NewBudget(maxLoads, skip, isLevel0)
	if !budget.Visit(uint32(offset)) {
		var zero T
		call.err = ErrCycleDetected
		call.val = zero
	} else if !budget.Take() {
		var zero T
		call.err = coreerrors.GraphIntegrity(coreerrors.ErrCodeLoadBudgetExhausted, "load budget exhausted", nil)
		call.val = zero
	} else {
		call.val, call.err = c.loader(offset, budget)
	}

	if call.err == nil {
		c.lru.Add(offset, call.val)
	}

	c.mu.Lock()
	delete(c.inFlight, offset)
	c.mu.Unlock()
	close(call.done)

	return call.val, call.err
}

// Peek returns the resident value for offset without triggering a load
// or affecting recency.
func (c *Cache[T]) Peek(offset types.FileOffset) (T, bool) {
	return c.lru.Peek(offset)
}

// Put installs value for offset directly, used when a writer just
// created a node and wants it hot without a round trip through Loader.
func (c *Cache[T]) Put(offset types.FileOffset, value T) {
	c.lru.Add(offset, value)
}

// Remove evicts offset, forcing the next access to reload from disk.
func (c *Cache[T]) Remove(offset types.FileOffset) {
	c.lru.Remove(offset)
}

// Len returns the number of resident entries.
func (c *Cache[T]) Len() int {
	return c.lru.Len()
}
