package procedures

import (
	"context"

	"github.com/vvka-141/sptest/pkg/sptest"
)

// recordedQuery captures one statement issued through the fake querier.
type recordedQuery struct {
	text string
	args []any
}

// scriptedQuerier returns canned results in sequence and records every
// statement it sees.
type scriptedQuerier struct {
	recorded []recordedQuery
	results  [][]sptest.Row
	errs     []error
	next     int
}

func (s *scriptedQuerier) Query(_ context.Context, text string, args ...any) ([]sptest.Row, error) {
	s.recorded = append(s.recorded, recordedQuery{text: text, args: args})
	i := s.next
	s.next++
	var rows []sptest.Row
	var err error
	if i < len(s.results) {
		rows = s.results[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return rows, err
}

func (s *scriptedQuerier) Exec(_ context.Context, text string, args ...any) (int64, error) {
	s.recorded = append(s.recorded, recordedQuery{text: text, args: args})
	return 1, nil
}

// fakeSessionRunner hands the same scripted querier to every session.
type fakeSessionRunner struct {
	querier    *scriptedQuerier
	sessionErr error
	sessions   int
}

func (f *fakeSessionRunner) WithSession(_ context.Context, fn func(sptest.Querier) error) error {
	f.sessions++
	if f.sessionErr != nil {
		return f.sessionErr
	}
	return fn(f.querier)
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}
