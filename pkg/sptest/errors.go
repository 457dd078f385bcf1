package sptest

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := runner.Run(ctx, config)
//	if errors.Is(err, sptest.ErrCasesFailed) {
//	    // Some fixture cases failed validation
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidParams indicates an unsupported parameter-set shape was
	// passed to the procedure invoker. This is a caller contract violation,
	// raised immediately and never retried.
	ErrInvalidParams = errors.New("params must be nil, a positional slice, or a ParameterSet")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed indicates SQL or procedure execution failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrFixtureNotFound indicates the requested fixture file was not found.
	ErrFixtureNotFound = errors.New("fixture file not found")

	// ErrProcNotFound indicates the named stored procedure does not exist.
	ErrProcNotFound = errors.New("stored procedure not found")

	// ErrCasesFailed indicates one or more fixture cases failed validation.
	ErrCasesFailed = errors.New("fixture cases failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrInvalidParams):
		return ExitContractViolation
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	case errors.Is(err, ErrFixtureNotFound):
		return ExitFixtureMissing
	case errors.Is(err, ErrCasesFailed):
		return ExitCasesFailed
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
