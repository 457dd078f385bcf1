package chain

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/logging"
	"github.com/vvka-141/sptest/internal/procedures"
)

type recordedCall struct {
	procName string
	params   *sptest.ParameterSet
	opts     procedures.RunOptions
}

// scriptedRunner returns canned step results in sequence and records every
// invocation it sees.
type scriptedRunner struct {
	calls   []recordedCall
	results []*sptest.StepResult
	errs    []error
	panics  []any
}

func (s *scriptedRunner) Run(_ context.Context, procName string, params any, opts procedures.RunOptions) (*sptest.StepResult, error) {
	set, _ := params.(*sptest.ParameterSet)
	s.calls = append(s.calls, recordedCall{procName: procName, params: set, opts: opts})
	i := len(s.calls) - 1
	if i < len(s.panics) && s.panics[i] != nil {
		panic(s.panics[i])
	}
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.results) {
		return s.results[i], nil
	}
	return &sptest.StepResult{}, nil
}

func statusResult(values ...any) *sptest.StepResult {
	columns := make([]string, len(values))
	for i := range values {
		columns[i] = fmt.Sprintf("col%d", i)
	}
	return &sptest.StepResult{
		Rows:         []sptest.Row{sptest.NewRow(columns, values)},
		OutputParams: map[string]any{},
	}
}

func paramSet(pairs ...any) *sptest.ParameterSet {
	set := sptest.NewParameterSet()
	for i := 0; i+1 < len(pairs); i += 2 {
		set.Set(pairs[i].(string), pairs[i+1])
	}
	return set
}

func TestExecute_SingleStepSuccess(t *testing.T) {
	runner := &scriptedRunner{results: []*sptest.StepResult{
		statusResult(int64(1), "OK", int64(42)),
	}}
	executor := NewExecutor(runner, logging.NewNullLogger())

	outcome := executor.Execute(context.Background(), []sptest.ChainStep{
		{ProcName: "usp_CreateTeam", Parameters: paramSet("@strName", "Alpha"), OutputMapping: map[string]string{"@intTeamID": "team_id"}},
	})

	require.True(t, outcome.Success)
	assert.Zero(t, outcome.FailedStep)
	assert.Empty(t, outcome.Error)
	require.Contains(t, outcome.Results, "step_1")
	assert.Equal(t, int64(42), outcome.ChainData["team_id"])

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "usp_CreateTeam", runner.calls[0].procName)
	assert.True(t, runner.calls[0].opts.CaptureOutputs)
}

func TestExecute_AbortsOnFailedStep(t *testing.T) {
	runner := &scriptedRunner{results: []*sptest.StepResult{
		statusResult(int64(1), "created", int64(7)),
		statusResult(int64(0), "duplicate name"),
		statusResult(int64(1), "never reached"),
	}}
	executor := NewExecutor(runner, logging.NewNullLogger())

	steps := []sptest.ChainStep{
		{Step: 1, ProcName: "usp_CreateGroup", Parameters: paramSet("@strName", "Ops")},
		{Step: 2, ProcName: "usp_CreateGroup", Parameters: paramSet("@strName", "Ops")},
		{Step: 3, ProcName: "usp_DeleteGroup"},
	}
	outcome := executor.Execute(context.Background(), steps)

	assert.False(t, outcome.Success)
	assert.Equal(t, 2, outcome.FailedStep)
	assert.Equal(t, "duplicate name", outcome.Error)

	// The failed step's result is recorded; step 3 never runs.
	assert.Len(t, outcome.Results, 2)
	assert.Contains(t, outcome.Results, "step_1")
	assert.Contains(t, outcome.Results, "step_2")
	assert.Len(t, runner.calls, 2)
}

func TestExecute_LaterStepsInheritFromStepOne(t *testing.T) {
	runner := &scriptedRunner{results: []*sptest.StepResult{
		statusResult(int64(1), "OK"),
		statusResult(int64(1), "OK"),
		statusResult(int64(1), "OK"),
	}}
	executor := NewExecutor(runner, logging.NewNullLogger())

	steps := []sptest.ChainStep{
		{ProcName: "usp_A", Parameters: paramSet("@intTeamID", int64(5), "@strName", "Alpha")},
		{ProcName: "usp_B", Parameters: paramSet("@strName", "Beta")},
		{ProcName: "usp_C"},
	}
	outcome := executor.Execute(context.Background(), steps)
	require.True(t, outcome.Success)

	// Step 2 inherits step 1's base, with its own override winning.
	step2 := runner.calls[1].params
	v, _ := step2.Get("@intTeamID")
	assert.Equal(t, int64(5), v)
	v, _ = step2.Get("@strName")
	assert.Equal(t, "Beta", v)

	// Step 3 inherits from step 1, not from step 2's overridden set.
	step3 := runner.calls[2].params
	v, _ = step3.Get("@strName")
	assert.Equal(t, "Alpha", v)

	// The base snapshot is untouched by later-step mutation.
	v, _ = runner.calls[0].params.Get("@strName")
	assert.Equal(t, "Alpha", v)
}

func TestExecute_InputMapping(t *testing.T) {
	runner := &scriptedRunner{results: []*sptest.StepResult{
		statusResult(int64(1), "created", int64(99)),
		statusResult(int64(1), "OK"),
	}}
	executor := NewExecutor(runner, logging.NewNullLogger())

	steps := []sptest.ChainStep{
		{ProcName: "usp_CreateTeam", Parameters: paramSet("@intTeamID", int64(0)), OutputMapping: map[string]string{"@intTeamID": "team_id"}},
		{ProcName: "usp_AddMember", InputMapping: map[string]string{
			"@intTeamID": "team_id",
			"@intOwner":  "missing_key",
		}},
	}
	outcome := executor.Execute(context.Background(), steps)
	require.True(t, outcome.Success)

	step2 := runner.calls[1].params
	v, _ := step2.Get("@intTeamID")
	assert.Equal(t, int64(99), v, "chain data overwrites the inherited value")
	_, ok := step2.Get("@intOwner")
	assert.False(t, ok, "a missing chain key leaves the parameter as inherited")
}

func TestExecute_OutputWrittenUnderEveryMappingKey(t *testing.T) {
	runner := &scriptedRunner{results: []*sptest.StepResult{
		statusResult(int64(1), "OK", int64(13)),
	}}
	executor := NewExecutor(runner, logging.NewNullLogger())

	outcome := executor.Execute(context.Background(), []sptest.ChainStep{
		{ProcName: "usp_Create", OutputMapping: map[string]string{
			"@intID":    "record_id",
			"@intOther": "parent_id",
		}},
	})

	require.True(t, outcome.Success)
	assert.Equal(t, int64(13), outcome.ChainData["record_id"])
	assert.Equal(t, int64(13), outcome.ChainData["parent_id"])
}

func TestExecute_OutputExtraction(t *testing.T) {
	tests := []struct {
		name      string
		result    *sptest.StepResult
		wantValue any
		wantFound bool
	}{
		{"last positive wins", statusResult(int64(1), "OK", int64(5), int64(42)), int64(42), true},
		{"zero payload extracts nothing", statusResult(int64(1), "OK", int64(0)), nil, false},
		{"negative extracts nothing", statusResult(int64(1), "OK", int64(-3)), nil, false},
		{"bool excluded", statusResult(int64(1), "OK", true), nil, false},
		{"float accepted", statusResult(int64(1), "OK", 7.5), 7.5, true},
		{"falls back to status code", statusResult(int64(1), "OK"), int64(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &scriptedRunner{results: []*sptest.StepResult{tt.result}}
			executor := NewExecutor(runner, logging.NewNullLogger())

			outcome := executor.Execute(context.Background(), []sptest.ChainStep{
				{ProcName: "usp_X", OutputMapping: map[string]string{"@intID": "the_id"}},
			})
			require.True(t, outcome.Success)
			value, found := outcome.ChainData["the_id"]
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestExecute_StatusProtocolViolations(t *testing.T) {
	tests := []struct {
		name        string
		result      *sptest.StepResult
		wantMessage string
	}{
		{
			"no result rows",
			&sptest.StepResult{OutputParams: map[string]any{}},
			"no result rows",
		},
		{
			"one column",
			&sptest.StepResult{Rows: []sptest.Row{sptest.NewRow([]string{"code"}, []any{int64(1)})}},
			"at least 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &scriptedRunner{results: []*sptest.StepResult{tt.result}}
			executor := NewExecutor(runner, logging.NewNullLogger())

			outcome := executor.Execute(context.Background(), []sptest.ChainStep{{ProcName: "usp_X"}})
			assert.False(t, outcome.Success)
			assert.Equal(t, 1, outcome.FailedStep)
			assert.Contains(t, outcome.Error, tt.wantMessage)
			assert.Contains(t, outcome.Results, "step_1", "the failed step's result is still recorded")
		})
	}
}

func TestExecute_StatusCodeShapes(t *testing.T) {
	tests := []struct {
		name        string
		code        any
		wantSuccess bool
	}{
		{"nonzero int", int64(1), true},
		{"zero int", int64(0), false},
		{"null", nil, false},
		{"true", true, true},
		{"false", false, false},
		{"numeric string", "1", true},
		{"zero string", "0", false},
		{"non-numeric string", "oops", false},
		{"nonzero float", 2.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &scriptedRunner{results: []*sptest.StepResult{statusResult(tt.code, "msg")}}
			executor := NewExecutor(runner, logging.NewNullLogger())

			outcome := executor.Execute(context.Background(), []sptest.ChainStep{{ProcName: "usp_X"}})
			assert.Equal(t, tt.wantSuccess, outcome.Success)
		})
	}
}

func TestExecute_ExecutionErrorAborts(t *testing.T) {
	runner := &scriptedRunner{errs: []error{fmt.Errorf("deadlock victim")}}
	executor := NewExecutor(runner, logging.NewNullLogger())

	outcome := executor.Execute(context.Background(), []sptest.ChainStep{{ProcName: "usp_X"}})
	assert.False(t, outcome.Success)
	assert.Equal(t, 1, outcome.FailedStep)
	assert.Contains(t, outcome.Error, "deadlock victim")
	assert.Empty(t, outcome.Results, "a call that never returned a result records nothing")
}

func TestExecute_PanicRecovered(t *testing.T) {
	runner := &scriptedRunner{
		results: []*sptest.StepResult{statusResult(int64(1), "OK", int64(3))},
		panics:  []any{nil, "boom"},
	}
	executor := NewExecutor(runner, logging.NewNullLogger())

	steps := []sptest.ChainStep{
		{ProcName: "usp_A", OutputMapping: map[string]string{"@intID": "the_id"}},
		{ProcName: "usp_B"},
	}
	outcome := executor.Execute(context.Background(), steps)

	assert.False(t, outcome.Success)
	assert.Equal(t, 2, outcome.FailedStep)
	assert.Contains(t, outcome.Error, "boom")

	// Partial state survives the panic.
	assert.Contains(t, outcome.Results, "step_1")
	assert.Equal(t, int64(3), outcome.ChainData["the_id"])
}

func TestExecute_EmptyChainSucceeds(t *testing.T) {
	executor := NewExecutor(&scriptedRunner{}, logging.NewNullLogger())
	outcome := executor.Execute(context.Background(), nil)
	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, outcome.ChainData)
}

func TestNewExecutor_NilDependenciesPanic(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { NewExecutor(&scriptedRunner{}, nil) })
}
