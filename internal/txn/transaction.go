package txn

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Aman-CERP/vectorcore/internal/catalog"
	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/sparse"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// State is a transaction's position in the {Begin -> Accumulate ->
// Flush -> Commit} or {Begin -> Abort} state machine (spec §4.11).
type State int

const (
	StateAccumulate State = iota
	StateFlush
	StateCommit
	StateAborted
)

// Transaction accumulates inserts against a single allocated version
// and commits or aborts them as a unit (spec §4.9, §5 "Ordering
// guarantees": "inserts against the same vector id are not supported
// [within one transaction]").
type Transaction struct {
	id      uuid.UUID
	version types.VersionHash
	coord   *Coordinator
	state   State

	indexedCount atomic.Uint64
}

// ID returns the transaction's log-correlation attempt id (spec
// DESIGN NOTES: uuid is not persisted, purely a debugging aid).
func (tx *Transaction) ID() uuid.UUID { return tx.id }

// Version returns the version this transaction's writes belong to.
func (tx *Transaction) Version() types.VersionHash { return tx.version }

func (tx *Transaction) requireAccumulate() error {
	if tx.state != StateAccumulate {
		return coreerrors.InvalidParams("transaction is not accepting writes", nil)
	}
	return nil
}

// InsertDense inserts a dense vector under this transaction's version.
func (tx *Transaction) InsertDense(id types.VectorID, vec []float32, dims []uint32) error {
	if err := tx.requireAccumulate(); err != nil {
		return err
	}
	if tx.coord.Dense == nil {
		return coreerrors.InvalidParams("collection has no dense index enabled", nil)
	}
	if err := tx.coord.Dense.Insert(id, vec, dims, tx.version); err != nil {
		return err
	}
	tx.indexedCount.Add(1)
	return nil
}

// InsertSparse inserts a sparse vector under this transaction's version.
func (tx *Transaction) InsertSparse(id types.VectorID, pairs []sparse.Pair) error {
	if err := tx.requireAccumulate(); err != nil {
		return err
	}
	if tx.coord.Sparse == nil {
		return coreerrors.InvalidParams("collection has no sparse index enabled", nil)
	}
	if err := tx.coord.Sparse.Insert(id, pairs, tx.version); err != nil {
		return err
	}
	tx.indexedCount.Add(1)
	return nil
}

// InsertText indexes a document's tokens under this transaction's version.
func (tx *Transaction) InsertText(id types.VectorID, tokens []string) error {
	if err := tx.requireAccumulate(); err != nil {
		return err
	}
	if tx.coord.Text == nil {
		return coreerrors.InvalidParams("collection has no text index enabled", nil)
	}
	if err := tx.coord.Text.Insert(id, tokens, tx.version); err != nil {
		return err
	}
	tx.indexedCount.Add(1)
	return nil
}

// Commit flushes every wired index's buffer manager, then the KV
// catalog's count_indexed counter, then advances current_version —
// in that order (spec §4.9: "data first, then dim/index, then the KV
// catalog's counters ... current_version is advanced last").
func (tx *Transaction) Commit() error {
	if tx.state != StateAccumulate {
		return coreerrors.InvalidParams("transaction already finalized", nil)
	}
	tx.state = StateFlush

	if err := tx.flushIndexes(); err != nil {
		return tx.abortWithCause(err)
	}

	indexed := tx.indexedCount.Load()
	err := tx.coord.cat.Update(func(kv catalog.Tx) error {
		current, err := readCounter(kv, catalog.KeyCountIndexed)
		if err != nil {
			return err
		}
		return kv.Put([]byte(catalog.KeyCountIndexed), catalog.PutU32(current+uint32(indexed)))
	})
	if err != nil {
		return tx.abortWithCause(coreerrors.DatabaseError("commit count_indexed", err))
	}

	if err := tx.coord.tracker.UpdateCurrentVersion(uint32(tx.version)); err != nil {
		return tx.abortWithCause(coreerrors.DatabaseError("advance current_version", err))
	}

	tx.state = StateCommit
	tx.coord.logger.Info("txn_commit",
		slog.String("attempt_id", tx.id.String()),
		slog.Uint64("version", uint64(tx.version)),
		slog.Uint64("indexed", indexed))
	return tx.coord.lock.Unlock()
}

func readCounter(kv catalog.Tx, key string) (uint32, error) {
	raw, err := kv.Get([]byte(key))
	if err != nil {
		return 0, err
	}
	v, ok := catalog.GetU32(raw)
	if !ok {
		return 0, nil
	}
	return v, nil
}

func (tx *Transaction) flushIndexes() error {
	if tx.coord.Dense != nil {
		if err := tx.coord.Dense.Flush(); err != nil {
			return err
		}
	}
	if tx.coord.Sparse != nil {
		if err := tx.coord.Sparse.Flush(); err != nil {
			return err
		}
	}
	if tx.coord.Text != nil {
		if err := tx.coord.Text.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (tx *Transaction) abortWithCause(cause error) error {
	tx.state = StateAborted
	tx.coord.logger.Error("txn_abort",
		slog.String("attempt_id", tx.id.String()),
		slog.Uint64("version", uint64(tx.version)),
		slog.String("cause", cause.Error()))
	_ = tx.coord.lock.Unlock()
	return cause
}

// Abort drops the transaction without committing: current_version is
// not advanced and the write lock is released. Inserts already applied
// to the wired indexes are not rolled back; they stay in memory. The
// version allocated by Begin is never referenced by current_version,
// so its on-disk files are garbage on the next startup scan.
func (tx *Transaction) Abort() error {
	if tx.state != StateAccumulate && tx.state != StateFlush {
		return nil
	}
	tx.state = StateAborted
	tx.coord.logger.Info("txn_abort_requested",
		slog.String("attempt_id", tx.id.String()),
		slog.Uint64("version", uint64(tx.version)))
	return tx.coord.lock.Unlock()
}
