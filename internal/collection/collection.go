package collection

import (
	"fmt"
	"sync"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// DenseIndex, SparseIndex and TextIndex are the minimal lifecycle
// surfaces a Collection needs from the three concrete index kinds
// (internal/graph, internal/sparse, internal/tfidf). Declaring them
// here rather than importing those packages keeps collection a leaf
// dependency: the Transaction Coordinator and Query Executor wire a
// Collection to its concrete indexes, not the other way around.
type DenseIndex interface {
	Flush() error
	Close() error
}

type SparseIndex interface {
	Flush() error
	Close() error
}

type TextIndex interface {
	Flush() error
	Close() error
}

// Collection is the top-level namespace a set of indexes is built
// under (spec §3 "Collection"). It is safe for concurrent use: vector
// id registration is the hot path shared across parallel insert
// fan-out (spec §5).
type Collection struct {
	mu sync.RWMutex

	Name   string
	Dense  DenseOptions
	Sparse SparseOptions
	Text   TextOptions
	Config Config
	Schema *Schema

	denseIndex  DenseIndex
	sparseIndex SparseIndex
	textIndex   TextIndex

	// ids tracks every VectorID ever registered in this collection,
	// across all versions, enforcing spec §3's "(collection, vector
	// id) is unique across all versions" invariant.
	ids map[types.VectorID]struct{}
	// nextDocID is the monotone 32-bit document counter maintained
	// alongside the caller-assigned 64-bit VectorID, for BM25
	// bookkeeping (spec §3 "Vector ID").
	nextDocID uint32
}

// New creates a named, empty Collection. A nil schema is valid: a
// collection with no metadata schema accepts no metadata filters
// (every Filter compiled against it is vacuously unsatisfiable for
// any clause referencing a field, satisfied for an empty clause set).
func New(name string, dense DenseOptions, sparse SparseOptions, text TextOptions, cfg Config, schema *Schema) (*Collection, error) {
	if name == "" {
		return nil, coreerrors.InvalidParams("collection name must not be empty", nil)
	}
	if dense.Enabled && dense.Dimension <= 0 {
		return nil, coreerrors.InvalidParams("dense dimension must be positive when dense vectors are enabled", nil)
	}
	return &Collection{
		Name:   name,
		Dense:  dense,
		Sparse: sparse,
		Text:   text,
		Config: cfg,
		Schema: schema,
		ids:    make(map[types.VectorID]struct{}),
	}, nil
}

// SetDenseIndex, SetSparseIndex and SetTextIndex wire a concrete index
// implementation into the collection. Called once at collection open
// time by the component that constructs internal/graph.Index,
// internal/sparse.Index or internal/tfidf.Index.
func (c *Collection) SetDenseIndex(idx DenseIndex)   { c.mu.Lock(); defer c.mu.Unlock(); c.denseIndex = idx }
func (c *Collection) SetSparseIndex(idx SparseIndex) { c.mu.Lock(); defer c.mu.Unlock(); c.sparseIndex = idx }
func (c *Collection) SetTextIndex(idx TextIndex)     { c.mu.Lock(); defer c.mu.Unlock(); c.textIndex = idx }

// RegisterVectorID claims id for this collection, returning the
// internal monotone document id assigned alongside it. Returns an
// InvalidParams error if id has already been registered, per spec
// §3's uniqueness invariant — callers must check this before fanning
// an insert out across the index's data structures.
func (c *Collection) RegisterVectorID(id types.VectorID) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.ids[id]; exists {
		return 0, coreerrors.InvalidParams(fmt.Sprintf("vector id %d already exists in collection %q", id, c.Name), nil)
	}
	c.ids[id] = struct{}{}
	docID := c.nextDocID
	c.nextDocID++
	return docID, nil
}

// HasVectorID reports whether id has already been registered.
func (c *Collection) HasVectorID(id types.VectorID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[id]
	return ok
}

// Close flushes and closes every index the collection owns that has
// been wired in, returning the first error encountered after
// attempting all three.
func (c *Collection) Close() error {
	c.mu.RLock()
	dense, sparse, text := c.denseIndex, c.sparseIndex, c.textIndex
	c.mu.RUnlock()

	var firstErr error
	closeOne := func(idx interface{ Close() error }) {
		if idx == nil {
			return
		}
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closeOne(dense)
	closeOne(sparse)
	closeOne(text)
	return firstErr
}
