package query

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Aman-CERP/vectorcore/internal/collection"
	coreerrors "github.com/Aman-CERP/vectorcore/internal/errors"
	"github.com/Aman-CERP/vectorcore/internal/graph"
)

// BatchAnnQuery fans a slice of dense queries out across a worker pool
// bounded to GOMAXPROCS and returns one result slice per input query
// in the same order (spec §6 "batch_ann_query"), the same
// errgroup+semaphore shape the teacher uses for parallel multi-query
// search (internal/search/multi_query.go's parallelSubSearch). The
// first query to error cancels the rest via the shared context.
func (e *Executor) BatchAnnQuery(queries [][]float32, k int, filter *collection.Filter, rerank bool) ([][]graph.Result, error) {
	if e.Dense == nil {
		return nil, coreerrors.InvalidParams("collection has no dense index enabled", nil)
	}

	results := make([][]graph.Result, len(queries))
	sem := semaphore.NewWeighted(int64(workerCount()))
	g, ctx := errgroup.WithContext(context.Background())

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			r, err := e.Dense.Search(q, k, filter, rerank)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func workerCount() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}
