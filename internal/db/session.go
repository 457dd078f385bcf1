package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vvka-141/sptest/pkg/sptest"
)

// Client hands out scoped transactional sessions over a shared handle.
//
// Each WithSession call acquires a dedicated connection and transaction for
// that call only; sessions are never shared or reused. The Client itself is
// safe for concurrent use (database/sql pools internally), but the harness
// runs chains single-threaded by design.
type Client struct {
	handle *sql.DB
	logger sptest.Logger
}

// NewClient creates a Client over an open database handle.
// Panics on nil arguments: incorrect wiring is a programmer error and
// should fail loudly at startup.
func NewClient(handle *sql.DB, logger sptest.Logger) *Client {
	if handle == nil {
		panic("handle cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Client{handle: handle, logger: logger}
}

// WithSession runs fn inside a dedicated transactional session.
//
// A clean return from fn commits. An error return rolls back and the error
// is propagated. A panic inside fn rolls back, then re-panics. The
// connection is released on every exit path.
func (c *Client) WithSession(ctx context.Context, fn func(sptest.Querier) error) error {
	conn, err := c.handle.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquiring connection: %v", sptest.ErrConnectionFailed, err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", sptest.ErrConnectionFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				c.logger.Error("session rollback failed: %v", rbErr)
			}
		}
	}()

	if err := fn(&txQuerier{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing session: %v", sptest.ErrExecutionFailed, err)
	}
	committed = true
	return nil
}

// Close releases the underlying handle.
func (c *Client) Close() error {
	return c.handle.Close()
}

// txQuerier implements sptest.Querier over one transaction.
type txQuerier struct {
	tx *sql.Tx
}

// Query executes a row-returning statement and fetches every row.
func (q *txQuerier) Query(ctx context.Context, query string, args ...any) ([]sptest.Row, error) {
	rows, err := q.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []sptest.Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			values[i] = normalizeDriverValue(v)
		}
		out = append(out, sptest.NewRow(columns, values))
	}
	return out, rows.Err()
}

// Exec executes a statement that returns no rows.
func (q *txQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := q.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some statements legitimately carry no affected-row count.
		return 0, nil
	}
	return affected, nil
}

// normalizeDriverValue maps driver byte slices to strings so fetched values
// compare naturally; every other driver type passes through.
func normalizeDriverValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

var _ sptest.SessionRunner = (*Client)(nil)
var _ sptest.Querier = (*txQuerier)(nil)
