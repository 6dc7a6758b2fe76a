package query

import (
	"github.com/Aman-CERP/vectorcore/internal/collection"
	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/graph"
	"github.com/Aman-CERP/vectorcore/internal/sparse"
	"github.com/Aman-CERP/vectorcore/internal/tfidf"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// Executor routes a query to whichever of a collection's three index
// kinds it targets (spec §4.10 "Query Executor"). A nil index field
// means that kind is not enabled for the collection, matching
// internal/txn.Coordinator's wiring convention.
type Executor struct {
	Dense  *graph.Index
	Sparse *sparse.Index
	Text   *tfidf.Index
}

// NewExecutor builds a Query Executor over a collection's wired
// indexes. Any of the three may be nil.
func NewExecutor(dense *graph.Index, sparseIdx *sparse.Index, text *tfidf.Index) *Executor {
	return &Executor{Dense: dense, Sparse: sparseIdx, Text: text}
}

// AnnQuery searches the dense proximity-graph index (spec §6
// "ann_query"). filter may be nil for an unfiltered search; rerank
// recomputes full-precision distance for the top candidates before
// truncation (spec §4.6 step 4, already implemented by graph.Index.Search).
func (e *Executor) AnnQuery(vec []float32, k int, filter *collection.Filter, rerank bool) ([]graph.Result, error) {
	if e.Dense == nil {
		return nil, coreerrors.InvalidParams("collection has no dense index enabled", nil)
	}
	return e.Dense.Search(vec, k, filter, rerank)
}

// SparseQuery searches the sparse inverted index by (dimension, value)
// pairs (spec §6 ann_query over a sparse collection).
func (e *Executor) SparseQuery(pairs []sparse.Pair, k int) ([]sparse.Result, error) {
	if e.Sparse == nil {
		return nil, coreerrors.InvalidParams("collection has no sparse index enabled", nil)
	}
	return e.Sparse.Search(pairs, k)
}

// TermQuery searches the TF-IDF/BM25 index with caller-provided,
// already-tokenized terms.
func (e *Executor) TermQuery(terms []string, k int) ([]tfidf.Result, error) {
	if e.Text == nil {
		return nil, coreerrors.InvalidParams("collection has no text index enabled", nil)
	}
	return e.Text.Search(terms, k)
}

// Bm25Query tokenizes raw text the same way documents were tokenized
// at insert time and searches the TF-IDF/BM25 index (spec §6
// "bm25_query", §4.8 "Tokenization").
func (e *Executor) Bm25Query(text string, k int) ([]tfidf.Result, error) {
	return e.TermQuery(tfidf.Tokenize(text), k)
}

// FetchVectorNeighbors returns the caller-assigned ids linked from a
// vector's layer-0 node in the dense index (spec §6
// "fetch_vector_neighbors").
func (e *Executor) FetchVectorNeighbors(id types.VectorID) ([]types.VectorID, error) {
	if e.Dense == nil {
		return nil, coreerrors.InvalidParams("collection has no dense index enabled", nil)
	}
	return e.Dense.Neighbors(id)
}
