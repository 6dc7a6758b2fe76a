package txn

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Aman-CERP/vectorcore/internal/sparse"
	"github.com/Aman-CERP/vectorcore/internal/types"
)

// DenseItem is one vector of a batch dense insert.
type DenseItem struct {
	ID   types.VectorID
	Vec  []float32
	Dims []uint32
}

// SparseItem is one vector of a batch sparse insert.
type SparseItem struct {
	ID    types.VectorID
	Pairs []sparse.Pair
}

// TextItem is one document of a batch text insert.
type TextItem struct {
	ID     types.VectorID
	Tokens []string
}

// BatchInsertDense fans items out across a worker-stealing-style pool
// bounded to GOMAXPROCS (spec §5 "Parallel native threads with a
// work-stealing pool drives bulk insert and batch query"), the same
// errgroup+semaphore shape the teacher uses for parallel multi-query
// fan-out (internal/search/multi_query.go's parallelSubSearch).
func (tx *Transaction) BatchInsertDense(items []DenseItem) error {
	sem := semaphore.NewWeighted(int64(workerCount()))
	g, ctx := errgroup.WithContext(context.Background())

	for _, it := range items {
		it := it
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return tx.InsertDense(it.ID, it.Vec, it.Dims)
		})
	}
	return g.Wait()
}

// BatchInsertSparse is BatchInsertDense's sparse-index counterpart.
func (tx *Transaction) BatchInsertSparse(items []SparseItem) error {
	sem := semaphore.NewWeighted(int64(workerCount()))
	g, ctx := errgroup.WithContext(context.Background())

	for _, it := range items {
		it := it
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return tx.InsertSparse(it.ID, it.Pairs)
		})
	}
	return g.Wait()
}

// BatchInsertText is BatchInsertDense's text-index counterpart.
func (tx *Transaction) BatchInsertText(items []TextItem) error {
	sem := semaphore.NewWeighted(int64(workerCount()))
	g, ctx := errgroup.WithContext(context.Background())

	for _, it := range items {
		it := it
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return tx.InsertText(it.ID, it.Tokens)
		})
	}
	return g.Wait()
}

func workerCount() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}
