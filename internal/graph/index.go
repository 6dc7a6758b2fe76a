package graph

import (
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Aman-CERP/vectorcore/internal/catalog"
	"github.com/Aman-CERP/vectorcore/internal/collection"
	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/objcache"
	"github.com/Aman-CERP/vectorcore/internal/quant"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// Result is a single search hit: the caller-assigned vector id and its
// ranked score against the query.
type Result struct {
	ID     types.VectorID
	Score  types.MetricResult
	Offset types.FileOffset
}

type bufferedSample struct {
	id   types.VectorID
	vec  []float32
	dims []uint32
}

var errNodeNotResident = coreerrors.GraphIntegrity(coreerrors.ErrCodeInvalidLocationNeighbor,
	"node is not resident and disk-backed reload is not implemented for the proximity graph in this build", nil)

// Index is a single collection's proximity-graph (dense ANN) index
// (spec §4.6). It owns the layer-0..num_layers root chain, the
// object cache of materialized nodes, the raw-vector store used for
// re-ranking, and the sampling/calibration state gating inserts until
// a values_range is committed.
type Index struct {
	dimension   int
	metric      types.MetricKind
	storageKind types.StorageKind
	resolution  uint8
	params      Params
	levelTable  LevelTable

	rawVectors *RawVectorStore
	cache      *objcache.Cache[*Node]

	nextOffset atomic.Uint32

	idMu       sync.RWMutex
	nodesByID  map[types.VectorID]types.FileOffset

	rootsOnce  sync.Once
	rootByLayer []types.FileOffset

	bufferMu sync.Mutex
	buffer   []bufferedSample
	sampling *types.SamplingState

	configured   atomic.Bool
	configuredCh chan struct{}
	valuesRange  quant.ValuesRange

	randMu sync.Mutex
	rng    *rand.Rand

	cat catalog.Catalog
}

// SetCatalog wires the catalog this index persists its calibrated
// values_range and highest_internal_id counter into. A nil catalog
// (the default) leaves calibration and the id counter in-memory only,
// matching collection.Collection's SetDenseIndex "nil means not
// wired" convention.
func (idx *Index) SetCatalog(cat catalog.Catalog) {
	idx.cat = cat
}

// NewIndex constructs an empty, unconfigured proximity-graph index.
// rawVectors must be backed by a buffer manager opened for this
// index's collection version; the index takes ownership of flushing
// and closing it via Flush/Close.
func NewIndex(dimension int, metric types.MetricKind, storageKind types.StorageKind, resolution uint8, params Params, rawVectors *RawVectorStore) (*Index, error) {
	if dimension <= 0 {
		return nil, coreerrors.InvalidParams("proximity graph dimension must be positive", nil)
	}
	cache, err := objcache.New[*Node](1<<20, func(offset types.FileOffset, _ *objcache.Budget) (*Node, error) {
		return nil, errNodeNotResident
	})
	if err != nil {
		return nil, err
	}
	return &Index{
		dimension:    dimension,
		metric:       metric,
		storageKind:  storageKind,
		resolution:   resolution,
		params:       params,
		levelTable:   BuildLevelTable(params.NumLayers, params.LevelFactor),
		rawVectors:   rawVectors,
		cache:        cache,
		nodesByID:    make(map[types.VectorID]types.FileOffset),
		sampling:     types.NewSamplingState(),
		configuredCh: make(chan struct{}),
		rng:          rand.New(rand.NewSource(1)),
	}, nil
}

func (idx *Index) nextOffsetValue() types.FileOffset {
	return types.FileOffset(idx.nextOffset.Add(1) - 1)
}

func (idx *Index) randFloat() float64 {
	idx.randMu.Lock()
	defer idx.randMu.Unlock()
	return idx.rng.Float64()
}

// IsConfigured reports whether calibration has committed a
// values_range and the index accepts normal inserts.
func (idx *Index) IsConfigured() bool { return idx.configured.Load() }

// ensureRoots lazily builds the synthetic root node present at every
// layer (spec §3 invariant: "root exists at every layer [0..num_layers]").
// Deferred until calibration completes since constructing a root node
// requires a values_range to quantize its zero vector against.
func (idx *Index) ensureRoots() {
	idx.rootsOnce.Do(func() {
		zero := make([]float32, idx.dimension)
		storage, err := quant.Quantize(zero, idx.storageKind, idx.valuesRange, idx.resolution)
		if err != nil {
			return
		}
		offsets := make([]types.FileOffset, idx.params.NumLayers+1)
		for l := 0; l <= idx.params.NumLayers; l++ {
			offsets[l] = idx.nextOffsetValue()
		}
		for l := 0; l <= idx.params.NumLayers; l++ {
			node := &Node{Offset: offsets[l], IsRoot: true, Layer: l, Storage: storage}
			if l < idx.params.NumLayers {
				node.SetParent(offsets[l+1], 0)
			}
			if l > 0 {
				node.SetChild(offsets[l-1], 0)
			}
			idx.cache.Put(offsets[l], node)
		}
		idx.rootByLayer = offsets
	})
}

func (idx *Index) getNode(offset types.FileOffset) (*Node, error) {
	return idx.cache.GetLazyObject(offset, 1<<16, nil, false)
}

func (idx *Index) distanceTo(query []float32, n *Node) (types.MetricResult, error) {
	vec, err := quant.Dequantize(n.Storage, idx.valuesRange)
	if err != nil {
		return types.MetricResult{}, err
	}
	return quant.Distance(query, vec, idx.metric)
}

func (idx *Index) nodeDistance(a, b *Node) (types.MetricResult, error) {
	va, err := quant.Dequantize(a.Storage, idx.valuesRange)
	if err != nil {
		return types.MetricResult{}, err
	}
	vb, err := quant.Dequantize(b.Storage, idx.valuesRange)
	if err != nil {
		return types.MetricResult{}, err
	}
	return quant.Distance(va, vb, idx.metric)
}

func (idx *Index) capForLayer(layer int) int {
	if layer == 0 {
		return idx.params.Level0NeighborsCount
	}
	return idx.params.NeighborsCount
}

// Insert quantizes and inserts a new dense vector (spec §4.6
// "Insertion"). Before calibration, inputs are buffered and tallied;
// the writer that crosses sample_threshold calibrates and replays the
// buffer, while others block until it finishes (spec §4.6
// "Calibration").
func (idx *Index) Insert(id types.VectorID, vec []float32, dims []uint32, version types.VersionHash) error {
	if len(vec) != idx.dimension {
		return coreerrors.InvalidParams("dense vector dimension mismatch", nil)
	}
	for {
		if idx.configured.Load() {
			return idx.insertConfigured(id, vec, dims, version)
		}
		idx.bufferMu.Lock()
		if idx.configured.Load() {
			idx.bufferMu.Unlock()
			continue
		}
		idx.buffer = append(idx.buffer, bufferedSample{id: id, vec: vec, dims: dims})
		for _, v := range vec {
			idx.sampling.Record(v)
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

// calibrateAndFlush derives the values_range from the buffered
// samples, commits it, and replays the buffer through the normal
// insert path, all while holding bufferMu so no concurrent Insert can
// observe a torn state between buffer drain and configured flipping
// true (spec §4.6: "the chosen range is persisted, the is_configured
// flag is set, and the buffered batch is flushed").
func (idx *Index) calibrateAndFlush(version types.VersionHash) error {
	idx.bufferMu.Lock()
	defer idx.bufferMu.Unlock()

	idx.valuesRange = quant.Calibrate(idx.sampling, idx.params.ClampMarginPercent)
	if idx.cat != nil {
		if err := idx.cat.Put([]byte(catalog.KeyValuesRange), catalog.PutF32Pair(idx.valuesRange.Min, idx.valuesRange.Max)); err != nil {
			return err
		}
	}
	idx.ensureRoots()

	buffered := idx.buffer
	idx.buffer = nil
	for _, s := range buffered {
		if err := idx.insertConfigured(s.id, s.vec, s.dims, version); err != nil {
			return err
		}
	}

	idx.configured.Store(true)
	close(idx.configuredCh)
	return nil
}

func (idx *Index) insertConfigured(id types.VectorID, vec []float32, dims []uint32, version types.VersionHash) error {
	idx.ensureRoots()

	storage, err := quant.Quantize(vec, idx.storageKind, idx.valuesRange, idx.resolution)
	if err != nil {
		return err
	}
	rawOffset, err := idx.rawVectors.Append(vec)
	if err != nil {
		return err
	}

	level := idx.levelTable.Sample(idx.randFloat())

	layerNodes := make([]*Node, level+1)
	for l := 0; l <= level; l++ {
		offset := idx.nextOffsetValue()
		node := &Node{Offset: offset, ID: id, Layer: l, Storage: storage, RawOffset: rawOffset, Dims: dims, Version: version}
		layerNodes[l] = node
		idx.cache.Put(offset, node)
	}
	for l := 0; l < level; l++ {
		layerNodes[l].SetParent(layerNodes[l+1].Offset, version)
		layerNodes[l+1].SetChild(layerNodes[l].Offset, version)
	}

	idx.idMu.Lock()
	idx.nodesByID[id] = layerNodes[0].Offset
	idx.idMu.Unlock()

	entry, err := idx.descendThroughLayers(vec, level)
	if err != nil {
		return err
	}

	for l := level; l >= 0; l-- {
		neighborCap := idx.capForLayer(l)
		candidates, err := idx.bestFirstSearch(vec, entry, idx.params.EfConstruction, l, nil)
		if err != nil {
			return err
		}
		kept, err := idx.diversify(candidates.Items(), neighborCap)
		if err != nil {
			return err
		}

		newNode := layerNodes[l]
		newNode.SetNeighbors(kept)
		for _, nbOffset := range kept {
			nbNode, err := idx.getNode(nbOffset)
			if err != nil {
				continue
			}
			if !nbNode.AddNeighbor(newNode.Offset, idx.capForLayer(nbNode.Layer)) {
				if err := idx.evictAndAdd(nbNode, newNode.Offset, idx.capForLayer(nbNode.Layer)); err != nil {
					return err
				}
			}
		}

		if l > 0 {
			items := candidates.Items()
			if len(items) > 0 {
				bestNode, err := idx.getNode(items[0].Offset)
				if err == nil {
					if childOffset, ok := bestNode.ChildOffset(); ok {
						entry = childOffset
						continue
					}
				}
			}
			entry = idx.rootByLayer[l-1]
		}
	}
	return nil
}

// descendThroughLayers greedy-descends from the top-layer root down to
// targetLayer, moving to the best same-layer neighbor whenever it
// improves distance to query, then stepping down via the best node's
// child link (or the layer's root as a fallback) (spec §4.6 step 3 /
// §4.6 "Search" step 2).
func (idx *Index) descendThroughLayers(query []float32, targetLayer int) (types.FileOffset, error) {
	idx.ensureRoots()
	current := idx.rootByLayer[idx.params.NumLayers]
	for layer := idx.params.NumLayers; layer > targetLayer; layer-- {
		best, err := idx.greedyBestInLayer(query, current)
		if err != nil {
			return 0, err
		}
		node, err := idx.getNode(best)
		if err != nil {
			return 0, err
		}
		if childOffset, ok := node.ChildOffset(); ok {
			current = childOffset
		} else {
			current = idx.rootByLayer[layer-1]
		}
	}
	return current, nil
}

// greedyBestInLayer repeatedly moves to the neighbor closest to query
// until no neighbor improves on the current node, within a single
// layer's subgraph.
func (idx *Index) greedyBestInLayer(query []float32, from types.FileOffset) (types.FileOffset, error) {
	current := from
	for {
		node, err := idx.getNode(current)
		if err != nil {
			return 0, err
		}
		bestResult, err := idx.distanceTo(query, node)
		if err != nil {
			return 0, err
		}
		best := current
		improved := false
		for _, nb := range node.NeighborsSnapshot() {
			nbNode, err := idx.getNode(nb)
			if err != nil {
				continue
			}
			r, err := idx.distanceTo(query, nbNode)
			if err != nil {
				continue
			}
			if r.Compare(bestResult) {
				best, bestResult, improved = nb, r, true
			}
		}
		if !improved {
			return best, nil
		}
		current = best
	}
}

// bestFirstSearch expands from entry within layer, keeping up to ef
// candidates ranked by distance to query. filter, when non-nil,
// excludes non-matching nodes from both the kept set and further
// expansion (spec §4.6 "Metadata filtering").
func (idx *Index) bestFirstSearch(query []float32, entry types.FileOffset, ef int, layer int, filter *collection.Filter) (*CandidateSet, error) {
	result := NewCandidateSet(ef)
	visited := map[types.FileOffset]struct{}{entry: {}}
	frontier := []types.FileOffset{entry}

	entryNode, err := idx.getNode(entry)
	if err != nil {
		return nil, err
	}
	if entryNode.Layer == layer {
		r, err := idx.distanceTo(query, entryNode)
		if err != nil {
			return nil, err
		}
		if filter == nil || entryNode.IsRoot || filter.Matches(entryNode.Dims) {
			result.Insert(Candidate{Offset: entry, Result: r})
		}
	}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		node, err := idx.getNode(cur)
		if err != nil {
			continue
		}
		for _, nb := range node.NeighborsSnapshot() {
			if _, ok := visited[nb]; ok {
				continue
			}
			visited[nb] = struct{}{}
			nbNode, err := idx.getNode(nb)
			if err != nil || nbNode.Layer != layer {
				continue
			}
			if filter != nil && !nbNode.IsRoot && !filter.Matches(nbNode.Dims) {
				continue
			}
			r, err := idx.distanceTo(query, nbNode)
			if err != nil {
				continue
			}
			frontier = append(frontier, nb)
			result.Insert(Candidate{Offset: nb, Result: r})
		}
	}
	return result, nil
}

// diversify keeps candidates (assumed best-first sorted) up to cap,
// dropping any candidate for which an already-kept candidate is a
// closer match to it than the query was (spec §4.6 "keep a candidate
// only if no already-kept neighbor is closer to it than v is").
func (idx *Index) diversify(candidates []Candidate, cap int) ([]types.FileOffset, error) {
	kept := make([]types.FileOffset, 0, cap)
	keptNodes := make([]*Node, 0, cap)
	for _, c := range candidates {
		if len(kept) >= cap {
			break
		}
		node, err := idx.getNode(c.Offset)
		if err != nil {
			continue
		}
		dominated := false
		for _, k := range keptNodes {
			dkc, err := idx.nodeDistance(k, node)
			if err != nil {
				continue
			}
			if dkc.Compare(c.Result) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}
		kept = append(kept, c.Offset)
		keptNodes = append(keptNodes, node)
	}
	return kept, nil
}

// evictAndAdd re-runs diversification over node's existing neighbors
// plus candidate, ranked by distance to node itself, and installs the
// surviving set (spec §4.6 "evict the victim in each overflowed
// neighbor's list by the same heuristic").
func (idx *Index) evictAndAdd(node *Node, candidate types.FileOffset, cap int) error {
	offsets := append(append([]types.FileOffset{}, node.NeighborsSnapshot()...), candidate)
	candidates := make([]Candidate, 0, len(offsets))
	for _, off := range offsets {
		other, err := idx.getNode(off)
		if err != nil {
			continue
		}
		r, err := idx.nodeDistance(node, other)
		if err != nil {
			continue
		}
		candidates = append(candidates, Candidate{Offset: off, Result: r})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Result.Compare(candidates[j].Result) })

	kept, err := idx.diversify(candidates, cap)
	if err != nil {
		return err
	}
	node.SetNeighbors(kept)
	return nil
}

// Search runs a top-k approximate nearest-neighbor query (spec §4.6
// "Search", §4.10 "Query Executor"). A non-nil filter is checked for
// unsatisfiability up front to skip traversal entirely (spec §4.6
// "Metadata filtering"). rerank recomputes full-precision distance
// from the stored raw vector for the top k*reranking_factor
// candidates before final truncation (spec §4.6 step 4).
func (idx *Index) Search(query []float32, k int, filter *collection.Filter, rerank bool) ([]Result, error) {
	if !idx.configured.Load() {
		return nil, coreerrors.InvalidParams("proximity graph index is not yet configured", nil)
	}
	if len(query) != idx.dimension {
		return nil, coreerrors.InvalidParams("query dimension mismatch", nil)
	}
	if k <= 0 {
		return nil, nil
	}
	if filter != nil && filter.Unsatisfiable() {
		return nil, nil
	}

	entry, err := idx.descendThroughLayers(query, 0)
	if err != nil {
		return nil, err
	}
	candidates, err := idx.bestFirstSearch(query, entry, idx.params.EfSearch, 0, filter)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, candidates.Len())
	for _, c := range candidates.Items() {
		node, err := idx.getNode(c.Offset)
		if err != nil || node.IsRoot {
			continue
		}
		results = append(results, Result{ID: node.ID, Score: c.Result, Offset: c.Offset})
	}

	rerankCount := int(float64(k) * idx.params.ReRankingFactor)
	if rerankCount > len(results) {
		rerankCount = len(results)
	}
	if rerank && rerankCount > 0 {
		for i := 0; i < rerankCount; i++ {
			node, err := idx.getNode(results[i].Offset)
			if err != nil {
				continue
			}
			rawVec, err := idx.rawVectors.Read(node.RawOffset)
			if err != nil {
				continue
			}
			r, err := quant.Distance(query, rawVec, idx.metric)
			if err != nil {
				continue
			}
			results[i].Score = r
		}
		sort.Slice(results[:rerankCount], func(i, j int) bool {
			return results[i].Score.Compare(results[j].Score)
		})
	}

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Neighbors returns the caller-assigned vector ids linked from id's
// layer-0 node (spec §6 RPC surface "fetch_vector_neighbors").
func (idx *Index) Neighbors(id types.VectorID) ([]types.VectorID, error) {
	idx.idMu.RLock()
	offset, ok := idx.nodesByID[id]
	idx.idMu.RUnlock()
	if !ok {
		return nil, coreerrors.InvalidParams("unknown vector id", nil)
	}
	node, err := idx.getNode(offset)
	if err != nil {
		return nil, err
	}
	node.mu.RLock()
	neighborOffsets := append([]types.FileOffset(nil), node.Neighbors...)
	node.mu.RUnlock()

	ids := make([]types.VectorID, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		n, err := idx.getNode(off)
		if err != nil || n.IsRoot {
			continue
		}
		ids = append(ids, n.ID)
	}
	return ids, nil
}

// Flush persists the raw-vector store's buffered writes and, when a
// catalog is wired, the node offset counter under highest_internal_id:
// the next offset to allocate, one past the highest allocated so far
// (spec §6: highest_internal_id is a required catalog key).
func (idx *Index) Flush() error {
	if idx.cat != nil {
		if err := idx.cat.Put([]byte(catalog.KeyHighestInternalID), catalog.PutU32(idx.nextOffset.Load())); err != nil {
			return err
		}
	}
	return idx.rawVectors.Flush()
}

// Close flushes and closes the raw-vector store.
func (idx *Index) Close() error { return idx.rawVectors.Close() }

var _ collection.DenseIndex = (*Index)(nil)
