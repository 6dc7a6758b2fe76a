package query

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/vectorcore/internal/bufio2"
	"github.com/Aman-CERP/vectorcore/internal/graph"
	"github.com/Aman-CERP/vectorcore/internal/sparse"
	"github.com/Aman-CERP/vectorcore/internal/tfidf"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

const testDim = 8

func newTestDenseIndex(t *testing.T) *graph.Index {
	t.Helper()
	mgr, err := bufio2.Open(filepath.Join(t.TempDir(), "vec_raw"), 4096)
	require.NoError(t, err)
	rawStore := graph.OpenRawVectorStore(mgr, testDim)

	p := graph.DefaultParams()
	p.NumLayers = 2
	p.NeighborsCount = 8
	p.Level0NeighborsCount = 16
	p.EfConstruction = 16
	p.EfSearch = 16
	p.SampleThreshold = 1
	p.ReRankingFactor = 2.0

	idx, err := graph.NewIndex(testDim, types.MetricCosineSimilarity, types.StorageUnsignedByte, 0, p, rawStore)
	require.NoError(t, err)
	return idx
}

func vecAt(base float32) []float32 {
	v := make([]float32, testDim)
	for i := range v {
		v[i] = base + float32(i)*0.01
	}
	return v
}

func newTestSparseIndex(t *testing.T) *sparse.Index {
	t.Helper()
	p := sparse.DefaultParams()
	p.SampleThreshold = 1
	return sparse.NewIndex(p)
}

func newTestTextIndex(t *testing.T) *tfidf.Index {
	t.Helper()
	p := tfidf.DefaultParams()
	p.SampleThreshold = 1
	return tfidf.NewIndex(p)
}

func TestExecutor_AnnQuery_RejectsWhenNoDenseIndex(t *testing.T) {
	e := NewExecutor(nil, newTestSparseIndex(t), nil)
	_, err := e.AnnQuery(vecAt(0.1), 5, nil, false)
	assert.Error(t, err)
}

func TestExecutor_AnnQuery_FindsInsertedVector(t *testing.T) {
	dense := newTestDenseIndex(t)
	require.NoError(t, dense.Insert(types.VectorID(1), vecAt(0.1), nil, 1))
	require.True(t, dense.IsConfigured())

	e := NewExecutor(dense, nil, nil)
	results, err := e.AnnQuery(vecAt(0.1), 5, nil, true)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, types.VectorID(1), results[0].ID)
}

func TestExecutor_SparseQuery_RejectsWhenNoSparseIndex(t *testing.T) {
	e := NewExecutor(newTestDenseIndex(t), nil, nil)
	_, err := e.SparseQuery([]sparse.Pair{{Dim: 1, Value: 0.5}}, 5)
	assert.Error(t, err)
}

func TestExecutor_SparseQuery_FindsInsertedVector(t *testing.T) {
	s := newTestSparseIndex(t)
	require.NoError(t, s.Insert(types.VectorID(7), []sparse.Pair{{Dim: 3, Value: 0.8}}, 1))

	e := NewExecutor(nil, s, nil)
	results, err := e.SparseQuery([]sparse.Pair{{Dim: 3, Value: 0.8}}, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, types.VectorID(7), results[0].ID)
}

func TestExecutor_TermQuery_RejectsWhenNoTextIndex(t *testing.T) {
	e := NewExecutor(newTestDenseIndex(t), nil, nil)
	_, err := e.TermQuery([]string{"hello"}, 5)
	assert.Error(t, err)
}

func TestExecutor_Bm25Query_TokenizesAndFindsDocument(t *testing.T) {
	text := newTestTextIndex(t)
	require.NoError(t, text.Insert(types.VectorID(9), []string{"the", "quick", "fox"}, 1))

	e := NewExecutor(nil, nil, text)
	results, err := e.Bm25Query("Quick Fox!", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, types.VectorID(9), results[0].ID)
}

func TestExecutor_FetchVectorNeighbors_RejectsWhenNoDenseIndex(t *testing.T) {
	e := NewExecutor(nil, nil, nil)
	_, err := e.FetchVectorNeighbors(1)
	assert.Error(t, err)
}

func TestExecutor_FetchVectorNeighbors_ReturnsLinkedIDs(t *testing.T) {
	dense := newTestDenseIndex(t)
	require.NoError(t, dense.Insert(types.VectorID(1), vecAt(0.1), nil, 1))
	require.NoError(t, dense.Insert(types.VectorID(2), vecAt(0.12), nil, 1))
	require.NoError(t, dense.Insert(types.VectorID(3), vecAt(0.14), nil, 1))

	e := NewExecutor(dense, nil, nil)
	neighbors, err := e.FetchVectorNeighbors(types.VectorID(2))
	require.NoError(t, err)
	assert.NotNil(t, neighbors)
}

func TestExecutor_FetchVectorNeighbors_UnknownIDErrors(t *testing.T) {
	dense := newTestDenseIndex(t)
	require.NoError(t, dense.Insert(types.VectorID(1), vecAt(0.1), nil, 1))

	e := NewExecutor(dense, nil, nil)
	_, err := e.FetchVectorNeighbors(types.VectorID(999))
	assert.Error(t, err)
}
