package txn

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
)

// WriteLock enforces "at most one writer transaction per index in
// flight at a time" (spec §4.9) via a cross-process exclusive lock on
// <index-dir>/.write.lock, generalizing the teacher's model-download
// mutual exclusion (internal/embed/lock.go's FileLock) to
// write-transaction mutual exclusion.
type WriteLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewWriteLock creates a write lock for the given index directory.
func NewWriteLock(indexDir string) *WriteLock {
	path := filepath.Join(indexDir, ".write.lock")
	return &WriteLock{path: path, flock: flock.New(path)}
}

// TryLock attempts to acquire the lock without blocking. A false
// return with a nil error means another writer transaction already
// holds it.
func (l *WriteLock) TryLock() (bool, error) {
	if l.locked {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, coreerrors.FsError("create index directory for write lock", err)
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, coreerrors.FsError("acquire write lock", err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Unlock releases the lock. Safe to call when not held.
func (l *WriteLock) Unlock() error {
	if !l.locked {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return coreerrors.FsError("release write lock", err)
	}
	l.locked = false
	return nil
}
