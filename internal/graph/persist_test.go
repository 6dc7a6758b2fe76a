package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/vectorcore/internal/catalog"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

func TestIndex_CalibrateAndFlush_PersistsValuesRangeAndHighestInternalID(t *testing.T) {
	idx := newTestIndex(t, 2)
	cat := catalog.NewMemCatalog()
	idx.SetCatalog(cat)

	require.NoError(t, idx.Insert(types.VectorID(1), vecAt(0.1), nil, 1))
	require.NoError(t, idx.Insert(types.VectorID(2), vecAt(0.2), nil, 1))
	require.True(t, idx.IsConfigured())

	raw, err := cat.Get([]byte(catalog.KeyValuesRange))
	require.NoError(t, err)
	min, max, ok := catalog.GetF32Pair(raw)
	require.True(t, ok)
	assert.True(t, max >= min)

	require.NoError(t, idx.Flush())
	raw, err = cat.Get([]byte(catalog.KeyHighestInternalID))
	require.NoError(t, err)
	highest, ok := catalog.GetU32(raw)
	require.True(t, ok)
	assert.True(t, highest > 0)
}

func TestIndex_WithoutCatalog_FlushStillFlushesRawVectors(t *testing.T) {
	idx := newTestIndex(t, 1)
	require.NoError(t, idx.Insert(types.VectorID(1), vecAt(0.1), nil, 1))
	assert.NoError(t, idx.Flush())
}
