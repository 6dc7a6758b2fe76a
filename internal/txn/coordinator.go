package txn

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Aman-CERP/vectorcore/internal/catalog"
	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/graph"
	"github.com/Aman-CERP/vectorcore/internal/sparse"
	"github.com/Aman-CERP/vectorcore/internal/tfidf"
	"github.com/Aman-CERP/vectorcore/internal/types"
	"github.com/Aman-CERP/vectorcore/internal/versioning"
)

// Coordinator owns a single collection's write path: the cross-process
// write lock, version allocation, and the wired index instances a
// transaction fans inserts out to (spec §4.9). A nil index field means
// that kind is not enabled for the collection (spec §3 "Collection":
// dense/sparse/text options each carry their own Enabled flag).
type Coordinator struct {
	name   string
	branch string

	lock    *WriteLock
	tracker *versioning.Tracker
	cat     catalog.Catalog
	health  *coreerrors.HealthGate
	logger  *slog.Logger

	Dense  *graph.Index
	Sparse *sparse.Index
	Text   *tfidf.Index

	mu sync.Mutex
}

// NewCoordinator wires a Transaction Coordinator for a single
// collection's index directory.
func NewCoordinator(name, indexDir string, tracker *versioning.Tracker, cat catalog.Catalog, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		name:    name,
		branch:  "main",
		lock:    NewWriteLock(indexDir),
		tracker: tracker,
		cat:     cat,
		health:  coreerrors.NewHealthGate(name),
		logger:  logger,
	}
}

// Health returns the coordinator's health gate (spec §7: "the index is
// marked unhealthy and rejects new writes until restart").
func (c *Coordinator) Health() *coreerrors.HealthGate { return c.health }

// Begin starts a new write transaction: acquires the at-most-one-writer
// lock, allocates the next version on the coordinator's branch, and
// returns a Transaction in the Accumulate state (spec §4.9, §4.11
// "Transaction lifecycle").
func (c *Coordinator) Begin() (*Transaction, error) {
	if !c.health.Allow() {
		return nil, coreerrors.Wrap(coreerrors.ErrCodeLockPoisoned, coreerrors.ErrIndexUnhealthy)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	acquired, err := c.lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, coreerrors.InvalidParams("a writer transaction is already in flight for collection "+c.name, nil)
	}

	version, parent, hadParent, err := c.tracker.AddNextVersion(c.branch)
	if err != nil {
		_ = c.lock.Unlock()
		return nil, err
	}

	attemptID := uuid.New()
	c.logger.Info("txn_begin",
		slog.String("collection", c.name),
		slog.String("attempt_id", attemptID.String()),
		slog.Uint64("version", uint64(version)),
		slog.Uint64("parent", uint64(parent)),
		slog.Bool("had_parent", hadParent))

	return &Transaction{
		id:      attemptID,
		version: types.VersionHash(version),
		coord:   c,
		state:   StateAccumulate,
	}, nil
}
