package sparse

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/vectorcore/internal/bufio2"
	"github.com/Aman-CERP/vectorcore/internal/catalog"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

func TestIndex_CalibrateAndFlush_PersistsValuesUpperBoundAndSnapshot(t *testing.T) {
	idx := NewIndex(smallParams(1))
	cat := catalog.NewMemCatalog()
	idx.SetCatalog(cat)
	mgr, err := bufio2.Open(filepath.Join(t.TempDir(), "sparse.idat"), 4096)
	require.NoError(t, err)
	idx.AttachStore(mgr)

	require.NoError(t, idx.Insert(types.VectorID(1), []Pair{{Dim: 10, Value: 0.9}}, 1))
	require.True(t, idx.IsConfigured())

	raw, err := cat.Get([]byte(catalog.KeyValuesUpperBound))
	require.NoError(t, err)
	bound, ok := catalog.GetF32(raw)
	require.True(t, ok)
	assert.True(t, bound > 0)

	require.NoError(t, idx.Flush())
	assert.True(t, mgr.FileSize() > 0)

	raw, err = cat.Get([]byte(catalog.KeyHighestInternalID))
	require.NoError(t, err)
	_, ok = catalog.GetU32(raw)
	require.True(t, ok)
}

func TestIndex_SerializeTrie_CoversInsertedDimensions(t *testing.T) {
	idx := NewIndex(smallParams(1))
	require.NoError(t, idx.Insert(types.VectorID(1), []Pair{{Dim: 10, Value: 0.9}, {Dim: 20, Value: 0.3}}, 1))
	require.True(t, idx.IsConfigured())

	snapshot := serializeTrie(idx.root)
	assert.NotEmpty(t, snapshot)
}

func TestIndex_WithoutStoreOrCatalog_FlushIsNoop(t *testing.T) {
	idx := NewIndex(smallParams(1))
	require.NoError(t, idx.Insert(types.VectorID(1), []Pair{{Dim: 10, Value: 0.9}}, 1))
	assert.NoError(t, idx.Flush())
}
