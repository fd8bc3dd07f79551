package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CopyFn is a backend's bulk insert. It inserts rows aligned to columns and
// returns the number of rows reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// Stats summarizes a LoadBatches or Export call.
type Stats struct {
	Rows    int64
	Batches int64
}

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls copyFn per non-empty batch. It returns the running totals and the
// first error. A canceled ctx returns ctx.Err().
//
// The batch slice is reused between calls, so copyFn must not keep it.
func LoadBatches(
	ctx context.Context,
	log *zap.Logger,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (Stats, error) {
	if batchSize <= 0 {
		return Stats{}, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return Stats{}, fmt.Errorf("copyFn must not be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	var (
		st        Stats
		batch     = make([][]any, 0, batchSize)
		start     = time.Now()
		lastFlush = start
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		st.Rows += n
		batch = batch[:0]
		if err != nil {
			log.Error("loader: copy failed", zap.Int64("inserted", n), zap.Int64("total", st.Rows), zap.Error(err))
			return err
		}

		st.Batches++
		now := time.Now()
		since := now.Sub(lastFlush)
		rps := 0.0
		if since > 0 {
			rps = float64(n) / since.Seconds()
		}
		log.Debug("loader: batch flushed",
			zap.Int64("batch", st.Batches),
			zap.Int64("inserted", n),
			zap.Int64("total", st.Rows),
			zap.Float64("rps", rps),
			zap.Duration("elapsed", now.Sub(start).Truncate(time.Millisecond)),
		)
		lastFlush = now
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return st, err
				}
				log.Info("loader: input drained", zap.Int64("batches", st.Batches), zap.Int64("total", st.Rows))
				return st, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return st, err
				}
			}
		}
	}
}
