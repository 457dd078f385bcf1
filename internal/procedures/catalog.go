// Package procedures builds and executes stored-procedure calls and reads
// the routine catalog that declares them.
package procedures

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/normalize"
)

// ParameterMeta is one declared parameter of a stored procedure, as read
// from the database's parameter-metadata catalog.
type ParameterMeta struct {
	Name     string // includes the @ sigil, as the catalog stores it
	DataType string
	Mode     string // IN, OUT, INOUT
}

// ProcDetails holds a procedure's catalog entry.
type ProcDetails struct {
	Name        string
	Definition  string
	RoutineType string
	Created     time.Time
	LastAltered time.Time
}

// Catalog reads stored-procedure metadata from the routine catalog.
// Each lookup runs in its own scoped session.
type Catalog struct {
	sessions sptest.SessionRunner
	logger   sptest.Logger
}

// NewCatalog creates a Catalog. Panics on nil dependencies.
func NewCatalog(sessions sptest.SessionRunner, logger sptest.Logger) *Catalog {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Catalog{sessions: sessions, logger: logger}
}

// Parameters returns a procedure's declared parameters in declaration order.
func (c *Catalog) Parameters(ctx context.Context, procName string) ([]ParameterMeta, error) {
	var out []ParameterMeta
	err := c.sessions.WithSession(ctx, func(q sptest.Querier) error {
		rows, err := q.Query(ctx, queryProcParameters, sql.Named("proc", procName))
		if err != nil {
			return err
		}
		for _, row := range rows {
			meta := ParameterMeta{}
			meta.Name, _ = row.ByIndex(0).(string)
			meta.DataType, _ = row.ByIndex(1).(string)
			meta.Mode, _ = row.ByIndex(2).(string)
			out = append(out, meta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching parameter metadata for %q: %w", procName, err)
	}
	return out, nil
}

// TypeMappings builds the parameter-name to SQL-type mapping for a
// procedure from its catalog metadata.
//
// This is best-effort: any fetch failure yields an empty mapping and a
// logged warning, never an error — execution proceeds unnormalized.
func (c *Catalog) TypeMappings(ctx context.Context, procName string) normalize.TypeMapping {
	metas, err := c.Parameters(ctx, procName)
	if err != nil {
		c.logger.Error("failed to fetch parameter metadata for %q: %v", procName, err)
		return normalize.TypeMapping{}
	}
	if len(metas) == 0 {
		c.logger.Verbose("no parameter metadata found for %q", procName)
		return normalize.TypeMapping{}
	}

	mappings := make(normalize.TypeMapping, len(metas))
	for _, meta := range metas {
		mappings[meta.Name] = normalize.TagForDataType(meta.DataType)
	}
	c.logger.Verbose("built type mappings for %q: %d parameters", procName, len(mappings))
	return mappings
}

// List returns procedure names containing the given substring, ordered by
// name. An empty filter lists every procedure.
func (c *Catalog) List(ctx context.Context, nameFilter string) ([]string, error) {
	pattern := "%" + nameFilter + "%"
	var out []string
	err := c.sessions.WithSession(ctx, func(q sptest.Querier) error {
		rows, err := q.Query(ctx, queryProcList, sql.Named("pattern", pattern))
		if err != nil {
			return err
		}
		for _, row := range rows {
			if name, ok := row.ByIndex(0).(string); ok {
				out = append(out, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing procedures: %w", err)
	}
	return out, nil
}

// Details returns a procedure's catalog entry, or ErrProcNotFound when it
// does not exist.
func (c *Catalog) Details(ctx context.Context, procName string) (*ProcDetails, error) {
	var details *ProcDetails
	err := c.sessions.WithSession(ctx, func(q sptest.Querier) error {
		existsRows, err := q.Query(ctx, queryProcExists, sql.Named("proc", procName))
		if err != nil {
			return err
		}
		if len(existsRows) == 0 || !isPositiveCount(existsRows[0].ByIndex(0)) {
			return fmt.Errorf("%w: %s", sptest.ErrProcNotFound, procName)
		}

		rows, err := q.Query(ctx, queryProcDetails, sql.Named("proc", procName))
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("%w: %s", sptest.ErrProcNotFound, procName)
		}

		row := rows[0]
		details = &ProcDetails{}
		details.Name, _ = row.ByIndex(0).(string)
		details.Definition, _ = row.ByIndex(1).(string)
		details.RoutineType, _ = row.ByIndex(2).(string)
		details.Created, _ = row.ByIndex(3).(time.Time)
		details.LastAltered, _ = row.ByIndex(4).(time.Time)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

func isPositiveCount(v any) bool {
	switch n := v.(type) {
	case int64:
		return n > 0
	case int:
		return n > 0
	case float64:
		return n > 0
	}
	return false
}
