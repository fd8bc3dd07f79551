package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"travel-etl/internal/table"
)

// Export streams every row of tbl into repo in batches of batchSize. One
// goroutine feeds a bounded channel; LoadBatches drains it. The first error
// from either side cancels the other.
func Export(ctx context.Context, log *zap.Logger, repo Repository, tbl *table.Table, batchSize int) (Stats, error) {
	if repo == nil {
		return Stats{}, fmt.Errorf("export: repository must not be nil")
	}
	if tbl == nil {
		return Stats{}, fmt.Errorf("export: table must not be nil")
	}
	if batchSize <= 0 {
		return Stats{}, fmt.Errorf("export: batchSize must be > 0")
	}

	rows := make(chan []any, batchSize)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(rows)
		for _, r := range tbl.Rows {
			select {
			case rows <- r:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var st Stats
	g.Go(func() error {
		var err error
		st, err = LoadBatches(gctx, log, tbl.ColumnNames(), rows, batchSize, repo.CopyFrom)
		return err
	})

	if err := g.Wait(); err != nil {
		return st, fmt.Errorf("export %s: %w", tbl.Name, err)
	}
	return st, nil
}
