package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLock_TryLock_SecondAttemptFails(t *testing.T) {
	dir := t.TempDir()
	l1 := NewWriteLock(dir)
	l2 := NewWriteLock(dir)

	acquired, err := l1.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired2, err := l2.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired2)
}

func TestWriteLock_UnlockThenRelock(t *testing.T) {
	dir := t.TempDir()
	l1 := NewWriteLock(dir)
	l2 := NewWriteLock(dir)

	acquired, err := l1.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, l1.Unlock())

	acquired2, err := l2.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired2)
}

func TestWriteLock_UnlockWithoutLockIsNoop(t *testing.T) {
	dir := t.TempDir()
	l := NewWriteLock(dir)
	assert.NoError(t, l.Unlock())
}

func TestWriteLock_CreatesIndexDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/index-dir"
	l := NewWriteLock(dir)

	acquired, err := l.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired)
}
