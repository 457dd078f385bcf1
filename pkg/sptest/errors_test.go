package sptest_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/sptest/pkg/sptest"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, sptest.ExitSuccess},
		{"general error", errors.New("something went wrong"), sptest.ExitGeneralError},
		{"invalid config", sptest.ErrInvalidConfig, sptest.ExitConfigError},
		{"wrapped invalid config", fmt.Errorf("DB_HOST is not set: %w", sptest.ErrInvalidConfig), sptest.ExitConfigError},
		{"contract violation", sptest.ErrInvalidParams, sptest.ExitContractViolation},
		{"connection failed", sptest.ErrConnectionFailed, sptest.ExitConnectionError},
		{"execution failed", sptest.ErrExecutionFailed, sptest.ExitExecutionFailed},
		{"fixture not found", sptest.ErrFixtureNotFound, sptest.ExitFixtureMissing},
		{"cases failed", sptest.ErrCasesFailed, sptest.ExitCasesFailed},
		{"connection refused pattern", errors.New("dial tcp: connection refused"), sptest.ExitConnectionError},
		{"no such host pattern", errors.New("lookup db.local: no such host"), sptest.ExitConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sptest.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
