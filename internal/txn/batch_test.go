package txn

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/vectorcore/internal/sparse"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

func TestTransaction_BatchInsertDense_InsertsAllItems(t *testing.T) {
	coord := newTestCoordinator(t)
	tx, err := coord.Begin()
	require.NoError(t, err)

	items := make([]DenseItem, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, DenseItem{
			ID:  types.VectorID(i + 1),
			Vec: []float32{float32(i), float32(i + 1), float32(i + 2), float32(i + 3)},
		})
	}

	require.NoError(t, tx.BatchInsertDense(items))
	assert.Equal(t, uint64(50), tx.indexedCount.Load())
}

func TestTransaction_BatchInsertSparse_InsertsAllItems(t *testing.T) {
	coord := newTestCoordinator(t)
	tx, err := coord.Begin()
	require.NoError(t, err)

	items := make([]SparseItem, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, SparseItem{
			ID:    types.VectorID(i + 1),
			Pairs: []sparse.Pair{{Dim: uint32(i), Value: 0.3}},
		})
	}

	require.NoError(t, tx.BatchInsertSparse(items))
	assert.Equal(t, uint64(20), tx.indexedCount.Load())
}

func TestTransaction_BatchInsertText_InsertsAllItems(t *testing.T) {
	coord := newTestCoordinator(t)
	tx, err := coord.Begin()
	require.NoError(t, err)

	items := make([]TextItem, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, TextItem{
			ID:     types.VectorID(i + 1),
			Tokens: []string{fmt.Sprintf("term%d", i), "shared"},
		})
	}

	require.NoError(t, tx.BatchInsertText(items))
	assert.Equal(t, uint64(20), tx.indexedCount.Load())
}

func TestTransaction_BatchInsertDense_PropagatesFirstError(t *testing.T) {
	coord := newTestCoordinator(t)
	coord.Dense = nil
	tx, err := coord.Begin()
	require.NoError(t, err)

	err = tx.BatchInsertDense([]DenseItem{{ID: 1, Vec: []float32{1, 2, 3, 4}}})
	assert.Error(t, err)
}

func TestWorkerCount_IsAtLeastOne(t *testing.T) {
	assert.GreaterOrEqual(t, workerCount(), 1)
}
