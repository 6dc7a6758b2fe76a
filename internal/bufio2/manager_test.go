package bufio2

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_WriteToEndOfFile_ReturnsGrowingOffsets(t *testing.T) {
	// Given: a fresh manager
	m, err := Open(filepath.Join(t.TempDir(), "vec_raw"), 16)
	require.NoError(t, err)
	defer m.Close()

	// When: appending two records
	off1, err := m.WriteToEndOfFile([]byte("hello"))
	require.NoError(t, err)
	off2, err := m.WriteToEndOfFile([]byte("world!"))
	require.NoError(t, err)

	// Then: offsets are sequential and file size grows
	assert.Equal(t, uint64(0), off1)
	assert.Equal(t, uint64(5), off2)
	assert.Equal(t, uint64(11), m.FileSize())
}

func TestManager_ReadWithCursor_ReadsAcrossPageBoundary(t *testing.T) {
	// Given: a manager with a small page size so a write spans pages
	m, err := Open(filepath.Join(t.TempDir(), "index"), 4)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.WriteToEndOfFile([]byte("0123456789"))
	require.NoError(t, err)

	// When: reading the whole span with a cursor
	c := m.OpenCursor()
	defer m.CloseCursor(c)
	require.NoError(t, m.SeekWithCursor(c, 0))
	data, err := m.ReadWithCursor(c, 10)

	// Then: the data matches despite spanning multiple 4-byte pages
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), data)
}

func TestManager_UpdateWithCursor_OverwritesInPlace(t *testing.T) {
	// Given: an existing record
	m, err := Open(filepath.Join(t.TempDir(), "catalog"), 8)
	require.NoError(t, err)
	defer m.Close()
	_, err = m.WriteToEndOfFile([]byte("AAAAAAAA"))
	require.NoError(t, err)

	// When: updating the middle four bytes
	c := m.OpenCursor()
	require.NoError(t, m.SeekWithCursor(c, 2))
	require.NoError(t, m.UpdateWithCursor(c, []byte("BBBB")))

	// Then: only the targeted bytes changed
	c2 := m.OpenCursor()
	require.NoError(t, m.SeekWithCursor(c2, 0))
	data, err := m.ReadWithCursor(c2, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("AABBBBAA"), data)
}

func TestManager_FlushThenReopen_PersistsData(t *testing.T) {
	// Given: data written and flushed
	path := filepath.Join(t.TempDir(), "vec_raw")
	m, err := Open(path, 64)
	require.NoError(t, err)
	_, err = m.WriteToEndOfFile([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	// When: reopening the same file
	m2, err := Open(path, 64)
	require.NoError(t, err)
	defer m2.Close()

	// Then: the data survives the round trip
	c := m2.OpenCursor()
	require.NoError(t, m2.SeekWithCursor(c, 0))
	data, err := m2.ReadWithCursor(c, len("persisted"))
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data))
}

func TestManager_PrimitiveReadWrite_RoundTrips(t *testing.T) {
	m, err := Open(filepath.Join(t.TempDir(), "part0"), 16)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.WriteToEndOfFile(make([]byte, 13))
	require.NoError(t, err)

	c := m.OpenCursor()
	require.NoError(t, m.SeekWithCursor(c, 0))
	require.NoError(t, m.UpdateU32WithCursor(c, 0xDEADBEEF))
	require.NoError(t, m.UpdateU64WithCursor(c, 0x0102030405060708))
	require.NoError(t, m.UpdateU8WithCursor(c, 0x7F))

	require.NoError(t, m.SeekWithCursor(c, 0))
	u32, err := m.ReadU32WithCursor(c)
	require.NoError(t, err)
	u64, err := m.ReadU64WithCursor(c)
	require.NoError(t, err)
	u8, err := m.ReadU8WithCursor(c)
	require.NoError(t, err)

	assert.Equal(t, uint32(0xDEADBEEF), u32)
	assert.Equal(t, uint64(0x0102030405060708), u64)
	assert.Equal(t, uint8(0x7F), u8)
}

func TestManager_ReadWithCursor_UnknownCursorReturnsBufIoError(t *testing.T) {
	m, err := Open(filepath.Join(t.TempDir(), "index"), 16)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.ReadWithCursor(CursorID(999), 4)

	require.Error(t, err)
	var bioErr *BufIoError
	require.ErrorAs(t, err, &bioErr)
	assert.Equal(t, ErrKindInvalidData, bioErr.Kind)
}

func TestFactory_Get_MemoizesManagerByTag(t *testing.T) {
	// Given: a factory over a temp root
	root := t.TempDir()
	f := NewFactory(root, DefaultNameFunc, 16)

	// When: requesting the same tag twice
	m1, err := f.Get("v1")
	require.NoError(t, err)
	m2, err := f.Get("v1")
	require.NoError(t, err)

	// Then: the same Manager instance is returned
	assert.Same(t, m1, m2)

	t.Cleanup(func() { f.CloseAll() })
}

func TestFactory_FlushAll_FlushesEveryManager(t *testing.T) {
	root := t.TempDir()
	f := NewFactory(root, DefaultNameFunc, 16)
	m1, err := f.Get("v1")
	require.NoError(t, err)
	m2, err := f.Get("v2")
	require.NoError(t, err)

	_, err = m1.WriteToEndOfFile([]byte("a"))
	require.NoError(t, err)
	_, err = m2.WriteToEndOfFile([]byte("b"))
	require.NoError(t, err)

	require.NoError(t, f.FlushAll())
	require.NoError(t, f.CloseAll())
}
