package txn

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/vectorcore/internal/bufio2"
	"github.com/Aman-CERP/vectorcore/internal/catalog"
	"github.com/Aman-CERP/vectorcore/internal/graph"
	"github.com/Aman-CERP/vectorcore/internal/sparse"
	"github.com/Aman-CERP/vectorcore/internal/tfidf"
	"github.com/Aman-CERP/vectorcore/internal/types"
	"github.com/Aman-CERP/vectorcore/internal/versioning"
)

const testDim = 4

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	dir := t.TempDir()
	cat := catalog.NewMemCatalog()
	tracker := versioning.NewTracker(cat)
	coord := NewCoordinator("test-collection", dir, tracker, cat, nil)

	mgr, err := bufio2.Open(filepath.Join(dir, "vec_raw"), 4096)
	require.NoError(t, err)
	rawStore := graph.OpenRawVectorStore(mgr, testDim)

	denseParams := graph.DefaultParams()
	denseParams.SampleThreshold = 1
	dense, err := graph.NewIndex(testDim, types.MetricCosineSimilarity, types.StorageUnsignedByte, 0, denseParams, rawStore)
	require.NoError(t, err)
	coord.Dense = dense

	sparseParams := sparse.DefaultParams()
	sparseParams.SampleThreshold = 1
	coord.Sparse = sparse.NewIndex(sparseParams)

	textParams := tfidf.DefaultParams()
	textParams.SampleThreshold = 1
	coord.Text = tfidf.NewIndex(textParams)

	return coord
}

func TestCoordinator_Begin_AllocatesVersionAndLocksWriter(t *testing.T) {
	coord := newTestCoordinator(t)

	tx, err := coord.Begin()
	require.NoError(t, err)
	assert.Equal(t, types.VersionHash(1), tx.Version())

	_, err = coord.Begin()
	assert.Error(t, err, "a second concurrent writer must be rejected")
}

func TestCoordinator_Begin_AfterCommitAllowsNextWriter(t *testing.T) {
	coord := newTestCoordinator(t)

	tx1, err := coord.Begin()
	require.NoError(t, err)
	require.NoError(t, tx1.Commit())

	tx2, err := coord.Begin()
	require.NoError(t, err)
	assert.Equal(t, types.VersionHash(2), tx2.Version())
}

func TestCoordinator_Begin_AfterAbortAllowsNextWriter(t *testing.T) {
	coord := newTestCoordinator(t)

	tx1, err := coord.Begin()
	require.NoError(t, err)
	require.NoError(t, tx1.Abort())

	_, err = coord.Begin()
	assert.NoError(t, err)
}
