package implementations

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PoolSettings sizes the connection pool. Every ledger unit pins one
// connection for the lifetime of its row locks, so MaxOpen bounds the number
// of concurrently open units.
type PoolSettings struct {
	MaxOpen int
	MaxIdle int
}

func Open(ctx context.Context, dsn string, pool PoolSettings) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(15 * time.Minute)

	return db, nil
}
