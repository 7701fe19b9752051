package backend

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is a scoped connection handle. Release must be called on every
// exit path; it returns the underlying connection to its pool.
type Conn interface {
	Query(ctx context.Context, sql string) (pgx.Rows, error)
	Release()
}

// ConnFactory creates scoped connection handles for one backend. The
// factory owns the credentials; the translation core never sees them.
type ConnFactory interface {
	Acquire(ctx context.Context) (Conn, error)
	Close()
}

// PoolFactory is a ConnFactory backed by a pgx connection pool
type PoolFactory struct {
	pool *pgxpool.Pool
}

// NewPoolFactory creates a pooled connection factory from a connection
// URL. The pool connects lazily; an unreachable backend surfaces on the
// first Acquire, while an invalid URL fails here.
func NewPoolFactory(ctx context.Context, connURL string) (*PoolFactory, error) {
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		return nil, &ConfigError{Op: "pool", Err: fmt.Errorf("invalid connection URL: %w", err)}
	}
	return &PoolFactory{pool: pool}, nil
}

// Acquire checks out a connection from the pool
func (f *PoolFactory) Acquire(ctx context.Context) (Conn, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend: acquire connection: %w", err)
	}
	return &poolConn{conn: conn}, nil
}

// Close releases the pool and all idle connections
func (f *PoolFactory) Close() {
	f.pool.Close()
}

type poolConn struct {
	conn *pgxpool.Conn
}

func (c *poolConn) Query(ctx context.Context, sql string) (pgx.Rows, error) {
	return c.conn.Query(ctx, sql)
}

func (c *poolConn) Release() {
	c.conn.Release()
}
