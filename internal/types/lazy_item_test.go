package types

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLazyItem_NewPending_HasKnownOffsetNoData(t *testing.T) {
	li := NewPending[string](42)

	assert.Equal(t, LazyPending, li.Kind())
	offset, ok := li.Offset()
	assert.True(t, ok)
	assert.Equal(t, FileOffset(42), offset)
	_, resolved := li.Get()
	assert.False(t, resolved)
}

func TestLazyItem_NewReady_HoldsDataImmediately(t *testing.T) {
	li := NewReady("hello", VersionHash(7))

	assert.Equal(t, LazyReady, li.Kind())
	data, ok := li.Get()
	assert.True(t, ok)
	assert.Equal(t, "hello", data)
	assert.Equal(t, VersionHash(7), li.VersionID())
}

func TestLazyItem_Null_IsNullTrue(t *testing.T) {
	li := Null[int]()
	assert.True(t, li.IsNull())

	var nilItem *LazyItem[int]
	assert.True(t, nilItem.IsNull())
}

func TestLazyItem_Resolve_TransitionsPendingToReady(t *testing.T) {
	li := NewPending[int](10)

	li.Resolve(99)

	assert.Equal(t, LazyReady, li.Kind())
	data, ok := li.Get()
	assert.True(t, ok)
	assert.Equal(t, 99, data)
	assert.True(t, li.IsSerialized())
}

func TestLazyItem_MarkDirtyTakeDirty_ClearsAfterTake(t *testing.T) {
	li := NewReady("x", 1)
	li.MarkDirty()

	assert.True(t, li.TakeDirty())
	assert.False(t, li.TakeDirty())
}

func TestLazyItem_MarkSerialized_InstallsOffsetAndVersion(t *testing.T) {
	li := NewReady("x", 1)

	li.MarkSerialized(55, 2)

	offset, ok := li.Offset()
	assert.True(t, ok)
	assert.Equal(t, FileOffset(55), offset)
	assert.Equal(t, VersionHash(2), li.VersionID())
	assert.True(t, li.IsSerialized())
}

func TestLazyItem_ConcurrentGetAndResolve_NoRace(t *testing.T) {
	li := NewPending[int](0)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		li.Resolve(1)
	}()
	go func() {
		defer wg.Done()
		li.Get()
	}()
	wg.Wait()
}
