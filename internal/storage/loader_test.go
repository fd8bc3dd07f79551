package storage

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func feed(n int) <-chan []any {
	in := make(chan []any, n)
	for i := 0; i < n; i++ {
		in <- []any{int64(i), "x"}
	}
	close(in)
	return in
}

func TestLoadBatches_Basic(t *testing.T) {
	t.Parallel()

	var calls int32
	var sizes []int
	copyFn := func(_ context.Context, cols []string, rows [][]any) (int64, error) {
		atomic.AddInt32(&calls, 1)
		sizes = append(sizes, len(rows))
		assert.Equal(t, []string{"c1", "c2"}, cols)
		return int64(len(rows)), nil
	}

	core, logs := observer.New(zapcore.DebugLevel)
	st, err := LoadBatches(context.Background(), zap.New(core), []string{"c1", "c2"}, feed(7), 3, copyFn)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rows: 7, Batches: 3}, st)
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, 3, logs.FilterMessage("loader: batch flushed").Len())
	assert.Equal(t, 1, logs.FilterMessage("loader: input drained").Len())
}

func TestLoadBatches_EmptyInput(t *testing.T) {
	t.Parallel()

	copyFn := func(context.Context, []string, [][]any) (int64, error) {
		t.Fatal("copyFn must not be called for empty input")
		return 0, nil
	}
	st, err := LoadBatches(context.Background(), nil, []string{"c"}, feed(0), 10, copyFn)
	require.NoError(t, err)
	assert.Zero(t, st)
}

func TestLoadBatches_ErrorStopsProcessing(t *testing.T) {
	t.Parallel()

	want := errors.New("copy failed")
	batches := 0
	copyFn := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		batches++
		if batches == 2 {
			return 0, want
		}
		return int64(len(rows)), nil
	}

	st, err := LoadBatches(context.Background(), zap.NewNop(), []string{"c"}, feed(5), 2, copyFn)
	require.ErrorIs(t, err, want)
	assert.Equal(t, Stats{Rows: 2, Batches: 1}, st)
	assert.Equal(t, 2, batches)
}

func TestLoadBatches_InvalidArgs(t *testing.T) {
	t.Parallel()

	ok := func(context.Context, []string, [][]any) (int64, error) { return 0, nil }
	_, err := LoadBatches(context.Background(), nil, nil, feed(0), 0, ok)
	assert.Error(t, err)
	_, err = LoadBatches(context.Background(), nil, nil, feed(0), 1, nil)
	assert.Error(t, err)
}

func TestLoadBatches_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan []any, 1)
	in <- []any{1}

	copyFn := func(ctx context.Context, _ []string, rows [][]any) (int64, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(2 * time.Second):
			return int64(len(rows)), nil
		}
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := LoadBatches(ctx, nil, []string{"c"}, in, 2, copyFn)
		errCh <- err
	}()

	cancel()
	close(in)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("LoadBatches did not return after cancel")
	}
}
