// Package chain runs ordered sequences of stored-procedure calls with
// parameter inheritance and data propagation between steps.
package chain

import (
	"context"
	"fmt"

	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/procedures"
)

// ProcRunner executes a single stored-procedure call.
// *procedures.Invoker satisfies it.
type ProcRunner interface {
	Run(ctx context.Context, procName string, params any, opts procedures.RunOptions) (*sptest.StepResult, error)
}

// Executor runs one chain of stored-procedure steps.
//
// A fresh Executor must be used per chain execution: ChainData and the
// gathered step results are mutated by exactly one execution and carry no
// meaning across chains.
type Executor struct {
	runner ProcRunner
	logger sptest.Logger
}

// NewExecutor creates an Executor. Panics on nil dependencies.
func NewExecutor(runner ProcRunner, logger sptest.Logger) *Executor {
	if runner == nil {
		panic("runner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Executor{runner: runner, logger: logger}
}

// Execute runs the steps in order and returns the terminal outcome.
//
// Step 1's parameters are snapshotted as the inheritance base; every later
// step starts from a deep copy of that snapshot, applies its own overrides,
// then its input mappings from ChainData. The first failing step aborts the
// chain; its result is still recorded, and everything gathered so far is
// returned. Panics are recovered at this boundary into the same structured
// failure shape.
func (e *Executor) Execute(ctx context.Context, steps []sptest.ChainStep) (outcome *sptest.ChainOutcome) {
	results := make(map[string]*sptest.StepResult)
	chainData := make(map[string]any)
	var baseParams *sptest.ParameterSet
	currentStep := 0

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("chain execution panicked at step %d: %v", currentStep, r)
			outcome = &sptest.ChainOutcome{
				Success:    false,
				FailedStep: currentStep,
				Error:      fmt.Sprintf("unexpected error: %v", r),
				Results:    results,
				ChainData:  chainData,
			}
		}
	}()

	for i, step := range steps {
		stepNum := step.Step
		if stepNum == 0 {
			stepNum = i + 1
		}
		currentStep = stepNum
		label := fmt.Sprintf("step_%d", stepNum)

		params := e.buildParams(i, step, &baseParams)
		e.applyInputMapping(step, params, chainData, stepNum)

		e.logger.Verbose("chain step %d: executing %s", stepNum, step.ProcName)
		result, err := e.runner.Run(ctx, step.ProcName, params, procedures.RunOptions{CaptureOutputs: true})
		if err != nil {
			return e.abort(stepNum, err.Error(), results, chainData)
		}
		results[label] = result

		status, err := decodeStatusRow(result.Rows)
		if err != nil {
			return e.abort(stepNum, err.Error(), results, chainData)
		}
		if !statusSuccess(result.Rows[0].ByIndex(0)) {
			return e.abort(stepNum, status.Message, results, chainData)
		}

		e.extractOutputs(step, result.Rows[0], chainData, stepNum)
		e.logger.Verbose("chain step %d: succeeded (%s)", stepNum, status.Message)
	}

	return &sptest.ChainOutcome{
		Success:   true,
		Results:   results,
		ChainData: chainData,
	}
}

// buildParams resolves a step's effective parameter set. The first step's
// declared parameters are used verbatim and snapshotted as the inheritance
// base; every later step inherits a deep copy of that snapshot with its own
// overrides applied on top, never the preceding step's parameters.
func (e *Executor) buildParams(index int, step sptest.ChainStep, baseParams **sptest.ParameterSet) *sptest.ParameterSet {
	if index == 0 {
		params := step.Parameters
		if params == nil {
			params = sptest.NewParameterSet()
		}
		*baseParams = params.Clone()
		return params
	}

	params := (*baseParams).Clone()
	if step.Parameters != nil {
		params.Merge(step.Parameters)
	}
	return params
}

// applyInputMapping overwrites parameters with chain data gathered by
// earlier steps. A missing chain key leaves the inherited value in place
// and logs a diagnostic; it is not an error.
func (e *Executor) applyInputMapping(step sptest.ChainStep, params *sptest.ParameterSet, chainData map[string]any, stepNum int) {
	for paramName, chainKey := range step.InputMapping {
		value, ok := chainData[chainKey]
		if !ok {
			e.logger.Verbose("chain step %d: input mapping %q -> %q skipped, key not in chain data", stepNum, paramName, chainKey)
			continue
		}
		params.Set(paramName, value)
	}
}

// extractOutputs pulls the generated identifier out of a successful step's
// status row and stores it under every key the output mapping names. The
// scan runs last column to first; the first strictly-positive non-boolean
// numeric wins. No match is a diagnostic, not a failure.
func (e *Executor) extractOutputs(step sptest.ChainStep, statusRow sptest.Row, chainData map[string]any, stepNum int) {
	if len(step.OutputMapping) == 0 {
		return
	}

	value, ok := extractOutput(statusRow)
	if !ok {
		e.logger.Verbose("chain step %d: output mapping declared but no positive numeric column found", stepNum)
		return
	}
	for _, chainKey := range step.OutputMapping {
		chainData[chainKey] = value
		e.logger.Verbose("chain step %d: stored %v under chain key %q", stepNum, value, chainKey)
	}
}

func (e *Executor) abort(stepNum int, message string, results map[string]*sptest.StepResult, chainData map[string]any) *sptest.ChainOutcome {
	e.logger.Error("chain aborted at step %d: %s", stepNum, message)
	return &sptest.ChainOutcome{
		Success:    false,
		FailedStep: stepNum,
		Error:      message,
		Results:    results,
		ChainData:  chainData,
	}
}
