package versioning

import (
	"testing"

	"github.com/Aman-CERP/vectorcore/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_AddNextVersion_FirstVersionHasNoParent(t *testing.T) {
	// Given: a fresh tracker
	tr := NewTracker(catalog.NewMemCatalog())

	// When: allocating the first version on a branch
	v, parent, hadParent, err := tr.AddNextVersion("main")

	// Then: it starts at 1 with no recorded parent
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)
	assert.Equal(t, uint32(0), parent)
	assert.False(t, hadParent)
}

func TestTracker_AddNextVersion_ChainsMonotonically(t *testing.T) {
	tr := NewTracker(catalog.NewMemCatalog())

	v1, _, _, err := tr.AddNextVersion("main")
	require.NoError(t, err)
	v2, parent2, hadParent2, err := tr.AddNextVersion("main")
	require.NoError(t, err)
	v3, parent3, _, err := tr.AddNextVersion("main")
	require.NoError(t, err)

	assert.Equal(t, []uint32{1, 2, 3}, []uint32{v1, v2, v3})
	assert.True(t, hadParent2)
	assert.Equal(t, v1, parent2)
	assert.Equal(t, v2, parent3)
}

func TestTracker_AddNextVersion_BranchesAreIndependent(t *testing.T) {
	tr := NewTracker(catalog.NewMemCatalog())

	mainV, _, _, err := tr.AddNextVersion("main")
	require.NoError(t, err)
	devV, _, hadParent, err := tr.AddNextVersion("dev")
	require.NoError(t, err)

	assert.Equal(t, uint32(1), mainV)
	assert.Equal(t, uint32(1), devV)
	assert.False(t, hadParent)
}

func TestTracker_UpdateCurrentVersion_PersistsAcrossReads(t *testing.T) {
	cat := catalog.NewMemCatalog()
	tr := NewTracker(cat)

	require.NoError(t, tr.UpdateCurrentVersion(9))
	got, err := tr.CurrentVersion()

	require.NoError(t, err)
	assert.Equal(t, uint32(9), got)
}

func TestTracker_CurrentVersion_DefaultsToZero(t *testing.T) {
	tr := NewTracker(catalog.NewMemCatalog())

	got, err := tr.CurrentVersion()

	require.NoError(t, err)
	assert.Equal(t, uint32(0), got)
}

func TestTracker_Parent_ReturnsRecordedParent(t *testing.T) {
	tr := NewTracker(catalog.NewMemCatalog())
	v1, _, _, err := tr.AddNextVersion("main")
	require.NoError(t, err)
	v2, _, _, err := tr.AddNextVersion("main")
	require.NoError(t, err)

	parent, ok, err := tr.Parent("main", v2)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, v1, parent)
}

func TestTracker_Parent_UnknownVersionReturnsNotOK(t *testing.T) {
	tr := NewTracker(catalog.NewMemCatalog())

	_, ok, err := tr.Parent("main", 999)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTracker_CrashedTransaction_LeavesOrphanVersionIgnoredOnRecovery(t *testing.T) {
	// Given: a version allocated but current_version never advanced past
	// it (simulating a crash between AddNextVersion and commit)
	cat := catalog.NewMemCatalog()
	tr := NewTracker(cat)
	require.NoError(t, tr.UpdateCurrentVersion(1))
	orphan, _, _, err := tr.AddNextVersion("main")
	require.NoError(t, err)
	require.Equal(t, uint32(1), orphan)

	// When: recovering, the durable current_version key is consulted
	recovered, err := tr.CurrentVersion()

	// Then: recovery trusts the last durable tip, not the allocated
	// version
	require.NoError(t, err)
	assert.Equal(t, uint32(1), recovered)
}
