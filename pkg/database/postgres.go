package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NewPostgresPool creates a pgx connection pool for PostgreSQL.
func NewPostgresPool(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("PostgreSQL connection pool established")
	return pool, nil
}

// dialFunc is swapped in tests.
var dialFunc = NewPostgresPool

var (
	sharedMu   sync.Mutex
	sharedPool *pgxpool.Pool
	sharedInit singleflight.Group
)

// Shared returns the process-wide pool, dialing it on first use.
// Concurrent first callers share one dial; a failed dial is not cached.
func Shared(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	if p := loadShared(); p != nil {
		return p, nil
	}
	v, err, _ := sharedInit.Do("pool", func() (interface{}, error) {
		if p := loadShared(); p != nil {
			return p, nil
		}
		p, err := dialFunc(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		sharedMu.Lock()
		sharedPool = p
		sharedMu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*pgxpool.Pool), nil
}

// CloseShared closes and forgets the process-wide pool. The next Shared call dials again.
func CloseShared() {
	sharedMu.Lock()
	p := sharedPool
	sharedPool = nil
	sharedMu.Unlock()
	if p != nil {
		p.Close()
	}
}

func loadShared() *pgxpool.Pool {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return sharedPool
}
