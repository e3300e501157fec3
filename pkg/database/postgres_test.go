package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDial builds a pool without connecting; pgxpool dials lazily when MinConns is zero.
func fakeDial(calls *int32, fail *atomic.Bool) func(context.Context, string, *zap.Logger) (*pgxpool.Pool, error) {
	return func(ctx context.Context, dsn string, _ *zap.Logger) (*pgxpool.Pool, error) {
		atomic.AddInt32(calls, 1)
		time.Sleep(10 * time.Millisecond)
		if fail != nil && fail.Load() {
			return nil, errors.New("dial refused")
		}
		return pgxpool.New(ctx, dsn)
	}
}

func withDial(t *testing.T, fn func(context.Context, string, *zap.Logger) (*pgxpool.Pool, error)) {
	t.Helper()
	prev := dialFunc
	dialFunc = fn
	t.Cleanup(func() {
		CloseShared()
		dialFunc = prev
	})
}

func TestSharedDialsOnceUnderConcurrentFirstUse(t *testing.T) {
	var calls int32
	withDial(t, fakeDial(&calls, nil))

	const n = 16
	pools := make([]*pgxpool.Pool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := Shared(context.Background(), "postgres://localhost:5432/undangan", zap.NewNop())
			assert.NoError(t, err)
			pools[i] = p
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, p := range pools {
		assert.Same(t, pools[0], p)
	}
}

func TestSharedDoesNotCacheFailure(t *testing.T) {
	var calls int32
	var fail atomic.Bool
	fail.Store(true)
	withDial(t, fakeDial(&calls, &fail))

	_, err := Shared(context.Background(), "postgres://localhost:5432/undangan", zap.NewNop())
	require.Error(t, err)

	fail.Store(false)
	p, err := Shared(context.Background(), "postgres://localhost:5432/undangan", zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCloseSharedForcesRedial(t *testing.T) {
	var calls int32
	withDial(t, fakeDial(&calls, nil))

	first, err := Shared(context.Background(), "postgres://localhost:5432/undangan", zap.NewNop())
	require.NoError(t, err)
	CloseShared()
	second, err := Shared(context.Background(), "postgres://localhost:5432/undangan", zap.NewNop())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
