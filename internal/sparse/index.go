package sparse

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Aman-CERP/vectorcore/internal/bufio2"
	"github.com/Aman-CERP/vectorcore/internal/catalog"
	"github.com/Aman-CERP/vectorcore/internal/collection"
	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// Pair is a single (dimension, value) component of a sparse vector or
// query.
type Pair struct {
	Dim   uint32
	Value float32
}

// Result is a single search hit: the caller-assigned vector id and its
// accumulated dot product against the query.
type Result struct {
	ID    types.VectorID
	Score types.MetricResult
}

type bufferedDoc struct {
	id    types.VectorID
	pairs []Pair
}

// Index is a single collection's sparse inverted (dot-product) index
// (spec §4.7).
type Index struct {
	params Params
	root   *node

	bufferMu sync.Mutex
	buffer   []bufferedDoc
	sampling *SamplingState

	configured       atomic.Bool
	configuredCh     chan struct{}
	valuesUpperBound float32

	idMu          sync.RWMutex
	nextDocID     uint32
	vectorToDoc   map[types.VectorID]uint32
	docToVector   map[uint32]types.VectorID

	cat   catalog.Catalog
	store *bufio2.Manager
}

// NewIndex constructs an empty, unconfigured sparse index.
func NewIndex(params Params) *Index {
	return &Index{
		params:       params,
		root:         newNode(),
		sampling:     NewSamplingState(),
		configuredCh: make(chan struct{}),
		vectorToDoc:  make(map[types.VectorID]uint32),
		docToVector:  make(map[uint32]types.VectorID),
	}
}

// IsConfigured reports whether calibration has committed a
// values_upper_bound.
func (idx *Index) IsConfigured() bool { return idx.configured.Load() }

func (idx *Index) assignDocID(id types.VectorID) uint32 {
	idx.idMu.Lock()
	defer idx.idMu.Unlock()
	if doc, ok := idx.vectorToDoc[id]; ok {
		return doc
	}
	doc := idx.nextDocID
	idx.nextDocID++
	idx.vectorToDoc[id] = doc
	idx.docToVector[doc] = id
	return doc
}

// Insert quantizes and indexes a sparse vector's (dim, value) pairs
// under id (spec §4.7 "Insertion"). Before calibration, inputs are
// buffered and tallied; the writer that crosses sample_threshold
// calibrates and replays the buffer (spec §4.9 "Transaction
// Coordinator").
func (idx *Index) Insert(id types.VectorID, pairs []Pair, version types.VersionHash) error {
	for {
		if idx.configured.Load() {
			return idx.insertConfigured(id, pairs, version)
		}
		idx.bufferMu.Lock()
		if idx.configured.Load() {
			idx.bufferMu.Unlock()
			continue
		}
		idx.buffer = append(idx.buffer, bufferedDoc{id: id, pairs: pairs})
		for _, p := range pairs {
			idx.sampling.Record(p.Value)
		}
		triggered := len(idx.buffer) >= idx.params.SampleThreshold && idx.sampling.MarkConfigured()
		idx.bufferMu.Unlock()

		if triggered {
			return idx.calibrateAndFlush(version)
		}
		<-idx.configuredCh
		return nil
	}
}

func (idx *Index) calibrateAndFlush(version types.VersionHash) error {
	idx.bufferMu.Lock()
	defer idx.bufferMu.Unlock()

	idx.valuesUpperBound = Calibrate(idx.sampling, idx.params.ClampMarginPercent)
	if idx.cat != nil {
		if err := idx.cat.Put([]byte(catalog.KeyValuesUpperBound), catalog.PutF32(idx.valuesUpperBound)); err != nil {
			return err
		}
	}

	buffered := idx.buffer
	idx.buffer = nil
	for _, d := range buffered {
		if err := idx.insertConfigured(d.id, d.pairs, version); err != nil {
			return err
		}
	}

	idx.configured.Store(true)
	close(idx.configuredCh)
	return nil
}

func (idx *Index) quantize(value float32) uint8 {
	max := float32(idx.params.maxKey())
	if idx.valuesUpperBound <= 0 {
		return 0
	}
	scaled := value / idx.valuesUpperBound * max
	if scaled < 0 {
		return 0
	}
	if scaled > max {
		return idx.params.maxKey()
	}
	return uint8(scaled)
}

func (idx *Index) insertConfigured(id types.VectorID, pairs []Pair, version types.VersionHash) error {
	doc := idx.assignDocID(id)
	for _, p := range pairs {
		leaf := descendOrCreate(idx.root, p.Dim)
		key := idx.quantize(p.Value)
		leaf.push(key, version, doc, idx.params.PageCapacity)
	}
	return nil
}

// Search runs a top-k dot-product query (spec §4.7 "Query"). Query
// dimensions are visited highest-value-first; each dimension's
// regime (high/low query weight) bounds how far down the quantized
// key space is scanned.
func (idx *Index) Search(query []Pair, k int) ([]Result, error) {
	if !idx.configured.Load() {
		return nil, coreerrors.InvalidParams("sparse index is not yet configured", nil)
	}
	if k <= 0 || len(query) == 0 {
		return nil, nil
	}

	sorted := append([]Pair{}, query...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	acc := make(map[uint32]float32)
	for _, q := range sorted {
		leaf := lookup(idx.root, q.Dim)
		if leaf == nil {
			continue
		}
		qv := idx.quantize(q.Value)

		floor := uint8(0)
		if qv <= idx.params.RegimeThreshold {
			floor = idx.params.RegimeThreshold
		}

		maxKey := int(idx.params.maxKey())
		for key := maxKey; key >= int(floor); key-- {
			vp := leaf.postingsAt(uint8(key))
			for seg := vp; seg != nil; seg = seg.Next {
				seg.Pool.Iterate(func(docID uint32) bool {
					acc[docID] += float32(qv) * float32(key)
					return true
				})
			}
		}
	}

	results := make([]Result, 0, len(acc))
	idx.idMu.RLock()
	for doc, dot := range acc {
		vecID, ok := idx.docToVector[doc]
		if !ok {
			continue
		}
		results = append(results, Result{ID: vecID, Score: types.MetricResult{Kind: types.MetricDotProductDistance, Value: -dot}})
	}
	idx.idMu.RUnlock()

	sort.Slice(results, func(i, j int) bool { return results[i].Score.Compare(results[j].Score) })

	rerankCount := int(float64(k) * idx.params.RerankingFactor)
	if rerankCount < len(results) {
		results = results[:rerankCount]
	}
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Flush appends a whole-trie snapshot to the attached store (see
// persist.go) and persists the doc-id counter (the next internal doc
// id to assign, one past the highest assigned) under
// highest_internal_id, when a store and catalog respectively are wired. With neither wired,
// Flush is a no-op and the trie remains in-memory only for the
// process lifetime.
func (idx *Index) Flush() error {
	if idx.cat != nil {
		idx.idMu.RLock()
		nextID := idx.nextDocID
		idx.idMu.RUnlock()
		if err := idx.cat.Put([]byte(catalog.KeyHighestInternalID), catalog.PutU32(nextID)); err != nil {
			return err
		}
	}
	if idx.store != nil {
		snapshot := serializeTrie(idx.root)
		if _, err := idx.store.WriteToEndOfFile(snapshot); err != nil {
			return err
		}
		return idx.store.Flush()
	}
	return nil
}

// Close flushes, then closes the attached store if one is wired.
func (idx *Index) Close() error {
	if err := idx.Flush(); err != nil {
		return err
	}
	if idx.store != nil {
		return idx.store.Close()
	}
	return nil
}

var _ collection.SparseIndex = (*Index)(nil)
