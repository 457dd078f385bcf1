// Package validator runs fixture cases end to end: surrounding SQL, single
// or chained procedure execution, and post-state validation, aggregated
// into per-case verdicts and a run summary.
package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/chain"
	"github.com/vvka-141/sptest/internal/fixture"
	"github.com/vvka-141/sptest/internal/procedures"
)

// statementResult records one ad-hoc SQL statement's outcome. A query
// statement carries its fetched rows; a non-query statement only the
// affected-row count.
type statementResult struct {
	Text     string
	IsQuery  bool
	Rows     []sptest.Row
	Affected int64
	Err      error
}

// Runner executes fixture cases against the database.
type Runner struct {
	sessions sptest.SessionRunner
	procs    chain.ProcRunner
	logger   sptest.Logger
	reporter *Reporter
}

// NewRunner creates a Runner. Panics on nil dependencies.
func NewRunner(sessions sptest.SessionRunner, procs chain.ProcRunner, logger sptest.Logger, reporter *Reporter) *Runner {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if procs == nil {
		panic("procs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if reporter == nil {
		panic("reporter cannot be nil")
	}
	return &Runner{sessions: sessions, procs: procs, logger: logger, reporter: reporter}
}

// Run loads the configured fixture and executes every matching case,
// returning the aggregated summary. The summary is returned even when
// cases failed; ErrCasesFailed signals the failure for exit-code mapping.
func (r *Runner) Run(ctx context.Context, cfg sptest.RunConfig) (*sptest.RunSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := fixture.Load(cfg.FixturePath)
	if err != nil {
		return nil, err
	}

	procNames := []string{cfg.ProcName}
	if cfg.ProcName == "" {
		procNames = doc.Procedures()
		sort.Strings(procNames)
	}

	summary := &sptest.RunSummary{RunID: uuid.New(), Started: time.Now()}
	for _, procName := range procNames {
		cases := doc.CasesFor(procName, cfg.CaseType, cfg.CaseID)
		if len(cases) == 0 {
			r.logger.Info("no matching cases for %q", procName)
			continue
		}
		r.reporter.ProcStart(procName, len(cases))
		for i, c := range cases {
			r.reporter.CaseStart(i+1, len(cases), c)
			verdict := r.RunCase(ctx, procName, c, cfg.Parameters)
			summary.Record(verdict)
			r.reporter.CaseResult(verdict)
		}
	}
	r.reporter.Summary(summary)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d case(s) failed", sptest.ErrCasesFailed, summary.Failed, summary.Total)
	}
	return summary, nil
}

// RunCase executes one fixture case: pre-SQL, the procedure call or chain,
// post-SQL, expected-state validation, then cleanup SQL. Cleanup always
// runs, even after an execution failure.
func (r *Runner) RunCase(ctx context.Context, procName string, c fixture.Case, overrides map[string]string) sptest.Verdict {
	verdict := sptest.Verdict{
		ID:       uuid.New(),
		Proc:     procName,
		CaseID:   c.CaseID,
		CaseType: c.CaseType,
	}

	params := effectiveParams(c.Parameters, overrides)
	chainData := map[string]any{}

	interpCtx := fixture.BuildContext(params, chainData)
	r.runSQLList(ctx, "pre_sql", c.PreSQL, interpCtx)

	if c.IsChain() {
		steps := c.ChainConfig
		if len(overrides) > 0 && len(steps) > 0 {
			steps = applyChainOverrides(steps, overrides)
		}
		executor := chain.NewExecutor(r.procs, r.logger)
		outcome := executor.Execute(ctx, steps)
		chainData = outcome.ChainData
		r.reporter.ChainOutcome(outcome)
		if !outcome.Success {
			verdict.Failures = append(verdict.Failures,
				fmt.Sprintf("chain failed at step %d: %s", outcome.FailedStep, outcome.Error))
		}
	} else {
		var callParams any
		if params != nil && params.Len() > 0 {
			callParams = params
		}
		result, err := r.procs.Run(ctx, procName, callParams, procedures.RunOptions{})
		if err != nil {
			verdict.Err = err.Error()
		} else {
			r.reporter.Rows(result.Rows)
		}
	}

	interpCtx = fixture.BuildContext(params, chainData)
	postResults := r.runSQLList(ctx, "post_sql", c.PostSQL, interpCtx)

	verdict.Failures = append(verdict.Failures, r.validatePostState(c.ExpectedPostState, postResults)...)

	r.runSQLList(ctx, "cleanup_sql", c.CleanupSQL, interpCtx)

	verdict.Passed = verdict.Err == "" && len(verdict.Failures) == 0
	return verdict
}

// runSQLList executes a list of ad-hoc statements inside one scoped session.
// A failing statement is recorded and execution continues with the next
// statement; only the session itself failing aborts the list.
func (r *Runner) runSQLList(ctx context.Context, label string, statements []fixture.Statement, interpCtx map[string]any) []statementResult {
	if len(statements) == 0 {
		return nil
	}

	results := make([]statementResult, 0, len(statements))
	err := r.sessions.WithSession(ctx, func(q sptest.Querier) error {
		for _, stmt := range statements {
			text := fixture.Interpolate(stmt.Text, interpCtx)
			res := statementResult{Text: text, IsQuery: isQuery(text)}
			if res.IsQuery {
				res.Rows, res.Err = q.Query(ctx, text, stmt.Args...)
			} else {
				res.Affected, res.Err = q.Exec(ctx, text, stmt.Args...)
			}
			if res.Err != nil {
				r.logger.Error("%s statement failed: %v (statement: %s)", label, res.Err, preview(text))
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("%s session failed: %v", label, err)
		for i := len(results); i < len(statements); i++ {
			results = append(results, statementResult{Text: statements[i].Text, Err: err})
		}
	}
	return results
}

// validatePostState checks expectation i against the i-th query statement
// of the post-SQL list.
func (r *Runner) validatePostState(expectations []fixture.Expectation, postResults []statementResult) []string {
	if len(expectations) == 0 {
		return nil
	}

	queries := queryResults(postResults)
	var failures []string
	for i, exp := range expectations {
		if i >= len(queries) {
			failures = append(failures, fmt.Sprintf("expectation %d: no matching post_sql query statement", i+1))
			continue
		}
		failures = append(failures, checkExpectation(i, exp, queries[i])...)
	}
	return failures
}

// effectiveParams clones the case parameters and applies CLI overrides on
// top. Override keys without a sigil get one.
func effectiveParams(params *sptest.ParameterSet, overrides map[string]string) *sptest.ParameterSet {
	if params == nil && len(overrides) == 0 {
		return nil
	}

	out := sptest.NewParameterSet()
	if params != nil {
		out = params.Clone()
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := name
		if !strings.HasPrefix(key, sptest.ParamSigil) {
			key = sptest.ParamSigil + key
		}
		out.Set(key, overrides[name])
	}
	return out
}

// applyChainOverrides applies CLI overrides to step 1's parameters, where
// they flow into the inheritance base of every later step.
func applyChainOverrides(steps []sptest.ChainStep, overrides map[string]string) []sptest.ChainStep {
	out := make([]sptest.ChainStep, len(steps))
	copy(out, steps)
	out[0].Parameters = effectiveParams(out[0].Parameters, overrides)
	return out
}

// preview truncates a statement for error logging.
func preview(text string) string {
	if len(text) <= sptest.MaxErrorPreviewLength {
		return text
	}
	return text[:sptest.MaxErrorPreviewLength] + "..."
}

func isQuery(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	return strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH")
}
