package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/sptest/pkg/sptest"
)

// ColumnCache memoizes table column lookups for the life of the process.
//
// It is an explicit object passed by reference, never a package-level
// singleton; invalidation happens only by process restart. Safe for
// concurrent use.
type ColumnCache struct {
	mu      sync.Mutex
	columns map[string][]string
}

// NewColumnCache creates an empty ColumnCache.
func NewColumnCache() *ColumnCache {
	return &ColumnCache{columns: make(map[string][]string)}
}

// Columns returns the declared column names of a table in ordinal position
// order, querying the catalog on first lookup and serving from memory after.
func (c *ColumnCache) Columns(ctx context.Context, q sptest.Querier, table string) ([]string, error) {
	key := strings.ToLower(table)

	c.mu.Lock()
	cached, ok := c.columns[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	rows, err := q.Query(ctx, queryTableColumns, sql.Named("table", table))
	if err != nil {
		return nil, fmt.Errorf("fetching columns for table %q: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table %q has no columns in the catalog", table)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row.ByIndex(0).(string); ok {
			names = append(names, name)
		}
	}

	c.mu.Lock()
	c.columns[key] = names
	c.mu.Unlock()
	return names, nil
}
