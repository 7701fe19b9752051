// Package exec implements the scan-execution contract the host engine
// consumes: running a translated query against a backend and yielding
// rows, plus the sink-writer collaborator contract.
package exec

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/guileen/fedsql/backend"
	"github.com/guileen/fedsql/logger"
	"github.com/guileen/fedsql/translate"
)

// EOF marks the end of a row iterator
var EOF = io.EOF

// RowIterator yields rows produced by a remote scan. Values appear in the
// attribute order of the scan's output schema. Next returns EOF when the
// rows are exhausted. Close must be called on every exit path; it
// releases the underlying connection.
type RowIterator interface {
	Next() ([]any, error)
	Close()
}

// RemoteScanner executes translated queries against a backend through its
// connection factory. Stateless and safe for concurrent use.
type RemoteScanner struct{}

// NewRemoteScanner creates a remote scanner
func NewRemoteScanner() *RemoteScanner {
	return &RemoteScanner{}
}

// Scan acquires a connection, runs the translated query and returns an
// iterator over the result rows. The connection is released when the
// iterator is closed, or immediately if the query fails.
func (s *RemoteScanner) Scan(ctx context.Context, result translate.Result, factory backend.ConnFactory) (RowIterator, error) {
	if factory == nil {
		return nil, fmt.Errorf("exec: backend has no connection factory")
	}
	conn, err := factory.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, result.SQL)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("exec: remote query failed: %w", err)
	}
	logger.DebugContext(ctx, "Remote scan started", "columns", len(result.Schema))
	return &remoteRows{conn: conn, rows: rows}, nil
}

type remoteRows struct {
	conn backend.Conn
	rows pgx.Rows
}

func (r *remoteRows) Next() ([]any, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, fmt.Errorf("exec: reading rows: %w", err)
		}
		return nil, EOF
	}
	values, err := r.rows.Values()
	if err != nil {
		return nil, fmt.Errorf("exec: decoding row: %w", err)
	}
	return values, nil
}

func (r *remoteRows) Close() {
	r.rows.Close()
	r.conn.Release()
}
