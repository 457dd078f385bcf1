package sptest

import "context"

// Querier abstracts the SQL execution surface available inside one scoped
// transactional session. It decouples the public API from driver types.
type Querier interface {
	// Query executes a statement that returns rows and fetches all of them.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)

	// Exec executes a statement that returns no rows and reports the
	// affected-row count.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// SessionRunner executes a function inside a dedicated transactional
// session scoped to that call only.
//
// A clean return from fn commits; an error return (or panic) rolls back.
// The underlying connection is released on every exit path. Sessions are
// never shared or reused across calls.
type SessionRunner interface {
	WithSession(ctx context.Context, fn func(Querier) error) error
}
