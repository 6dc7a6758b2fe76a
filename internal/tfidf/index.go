package tfidf

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

// Result is a single search hit: the caller-assigned vector id and
// its BM25 score.
type Result struct {
	ID    types.VectorID
	Score float32
}

type bufferedDoc struct {
	id     types.VectorID
	tokens []string
}

// Index is a single collection's TF-IDF/BM25 text index (spec §4.8).
type Index struct {
	params Params
	root   *node

	seqCounter atomic.Uint32

	bufferMu sync.Mutex
	buffer   []bufferedDoc

	sampledCount  atomic.Uint64
	sampledLength atomic.Uint64
	sampleGate    atomic.Bool

	configured            atomic.Bool
	configuredCh          chan struct{}
	averageDocumentLength float32

	totalDocuments atomic.Uint64

	idMu        sync.RWMutex
	nextDocID   uint32
	vectorToDoc map[types.VectorID]uint32
	docToVector map[uint32]types.VectorID
	docLength   map[uint32]int

	cat   catalog.Catalog
	store *bufio2.Manager
}

// NewIndex constructs an empty, unconfigured text index.
func NewIndex(params Params) *Index {
	return &Index{
		params:       params,
		root:         newNode(),
		configuredCh: make(chan struct{}),
		vectorToDoc:  make(map[types.VectorID]uint32),
		docToVector:  make(map[uint32]types.VectorID),
		docLength:    make(map[uint32]int),
	}
}

// IsConfigured reports whether calibration has committed
// AverageDocumentLength.
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

// Insert tokenizes-already-provided terms for document id (spec §4.8
// "Insertion"). Before calibration, documents are buffered and tallied
// by length; the writer that crosses sample_threshold calibrates
// AverageDocumentLength and replays the buffer (spec §4.8
// "Calibration", §4.9 "Transaction Coordinator").
func (idx *Index) Insert(id types.VectorID, tokens []string, version types.VersionHash) error {
	for {
		if idx.configured.Load() {
			return idx.insertConfigured(id, tokens, version)
		}
		idx.bufferMu.Lock()
		if idx.configured.Load() {
			idx.bufferMu.Unlock()
			continue
		}
		idx.buffer = append(idx.buffer, bufferedDoc{id: id, tokens: tokens})
		idx.sampledCount.Add(1)
		idx.sampledLength.Add(uint64(len(tokens)))
		triggered := len(idx.buffer) >= idx.params.SampleThreshold && idx.sampleGate.CompareAndSwap(false, true)
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

	count := idx.sampledCount.Load()
	length := idx.sampledLength.Load()
	if count == 0 {
		idx.averageDocumentLength = 0
	} else {
		idx.averageDocumentLength = float32(length) / float32(count)
	}
	if idx.cat != nil {
		if err := idx.cat.Put([]byte(catalog.KeyAverageDocLength), catalog.PutF32(idx.averageDocumentLength)); err != nil {
			return err
		}
	}

	buffered := idx.buffer
	idx.buffer = nil
	for _, d := range buffered {
		if err := idx.insertConfigured(d.id, d.tokens, version); err != nil {
			return err
		}
	}

	idx.configured.Store(true)
	close(idx.configuredCh)
	return nil
}

func (idx *Index) insertConfigured(id types.VectorID, tokens []string, version types.VersionHash) error {
	doc := idx.assignDocID(id)

	idx.idMu.Lock()
	idx.docLength[doc] = len(tokens)
	idx.idMu.Unlock()

	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	for term, tf := range counts {
		storageDim, quotient := SplitHash(TermHash(term))
		leaf := descendOrCreate(idx.root, storageDim)
		ti := leaf.termAt(quotient, func() uint16 { return uint16(idx.seqCounter.Add(1) - 1) })
		ti.mu.Lock()
		if ti.Documents == nil {
			ti.Documents = types.NewVersionedVec[types.DocTF](version)
		}
		types.PushSorted(ti.Documents, version, types.DocTF{DocID: types.DocID(doc), TF: float32(tf)})
		ti.mu.Unlock()
	}

	idx.totalDocuments.Add(1)
	return nil
}

// Search scores query terms against the index with BM25 (spec §4.8
// "BM25 scoring"), selecting the top k*reranking_factor candidates and
// sorting them descending by score.
func (idx *Index) Search(terms []string, k int) ([]Result, error) {
	if !idx.configured.Load() {
		return nil, coreerrors.InvalidParams("tfidf index is not yet configured", nil)
	}
	if k <= 0 || len(terms) == 0 {
		return nil, nil
	}

	totalDocs := idx.totalDocuments.Load()
	acc := make(map[uint32]float32)

	for _, term := range terms {
		storageDim, quotient := SplitHash(TermHash(term))
		leaf := lookup(idx.root, storageDim)
		if leaf == nil {
			continue
		}
		ti, ok := leaf.lookupTerm(quotient)
		if !ok {
			continue
		}
		ti.mu.Lock()
		df := uint64(ti.Documents.Len())
		idf := IDF(totalDocs, df)
		ti.Documents.Iterate(func(posting types.DocTF) bool {
			doc := uint32(posting.DocID)
			if idx.params.UseStandardBM25 {
				idx.idMu.RLock()
				dl := float32(idx.docLength[doc])
				idx.idMu.RUnlock()
				acc[doc] += ScoreStandard(idf, posting.TF, dl, idx.averageDocumentLength, idx.params.K1, idx.params.B)
			} else {
				acc[doc] += ScoreSimplified(idf, posting.TF, idx.params.Bits)
			}
			return true
		})
		ti.mu.Unlock()
	}

	results := make([]Result, 0, len(acc))
	idx.idMu.RLock()
	for doc, score := range acc {
		vecID, ok := idx.docToVector[doc]
		if !ok {
			continue
		}
		results = append(results, Result{ID: vecID, Score: score})
	}
	idx.idMu.RUnlock()

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

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

var _ collection.TextIndex = (*Index)(nil)
