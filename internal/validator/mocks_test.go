package validator

import (
	"context"

	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/procedures"
)

// fakeQuerier answers queries by exact statement text and records every
// statement it sees.
type fakeQuerier struct {
	queries []string
	execs   []string
	rowsFor map[string][]sptest.Row
	errFor  map[string]error
}

func (f *fakeQuerier) Query(_ context.Context, text string, _ ...any) ([]sptest.Row, error) {
	f.queries = append(f.queries, text)
	if err := f.errFor[text]; err != nil {
		return nil, err
	}
	return f.rowsFor[text], nil
}

func (f *fakeQuerier) Exec(_ context.Context, text string, _ ...any) (int64, error) {
	f.execs = append(f.execs, text)
	if err := f.errFor[text]; err != nil {
		return 0, err
	}
	return 1, nil
}

type fakeSessions struct {
	querier  *fakeQuerier
	sessions int
}

func (f *fakeSessions) WithSession(_ context.Context, fn func(sptest.Querier) error) error {
	f.sessions++
	return fn(f.querier)
}

type procCall struct {
	procName string
	params   *sptest.ParameterSet
}

// fakeProcs returns canned step results in sequence.
type fakeProcs struct {
	calls   []procCall
	results []*sptest.StepResult
	errs    []error
}

func (f *fakeProcs) Run(_ context.Context, procName string, params any, _ procedures.RunOptions) (*sptest.StepResult, error) {
	set, _ := params.(*sptest.ParameterSet)
	f.calls = append(f.calls, procCall{procName: procName, params: set})
	i := len(f.calls) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return &sptest.StepResult{}, nil
}
