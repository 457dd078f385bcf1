package sptest

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConnectionConfig represents SQL Server connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// Encrypt controls transport encryption: "disable", "false", "true",
	// or "strict" (TDS 8.0). Empty means driver default.
	Encrypt         string
	TrustServerCert bool

	// Additional connection parameters
	AppName        string
	ConnectTimeout time.Duration
}

// Validate checks that the settings required to open any connection are
// present. A failure here is fatal and raised before any call attempt.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if c.Host == "" {
		errs = append(errs, fmt.Errorf("database host is required: %w", ErrInvalidConfig))
	}
	if c.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}
	if c.Username == "" {
		errs = append(errs, fmt.Errorf("database user is required: %w", ErrInvalidConfig))
	}
	if c.Password == "" {
		errs = append(errs, fmt.Errorf("database password is required: %w", ErrInvalidConfig))
	}
	if c.Port < 0 {
		errs = append(errs, fmt.Errorf("database port cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// RunConfig contains all parameters needed to execute fixture cases.
type RunConfig struct {
	// FixturePath is the path to the JSON fixture file. A bare name without
	// extension gets FixtureExtension appended.
	FixturePath string

	// ProcName selects the procedure whose cases run. Empty runs every
	// procedure in the fixture.
	ProcName string

	// CaseType filters cases by type (positive, negative, edge).
	// Matching is case-insensitive. Empty runs all types.
	CaseType string

	// CaseID selects a single case by id. Empty runs all matching cases.
	CaseID string

	// Parameters are name=value overrides merged over every case's
	// parameter set (CLI --param flags).
	Parameters map[string]string

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the RunConfig has all required fields.
func (c *RunConfig) Validate() error {
	if c.FixturePath == "" {
		return fmt.Errorf("fixture path is required: %w", ErrInvalidConfig)
	}
	return nil
}

// Verdict is the pass/fail outcome of one fixture case.
type Verdict struct {
	ID       uuid.UUID
	Proc     string
	CaseID   string
	CaseType string
	Passed   bool

	// Failures lists every validation mismatch, one entry per failed
	// expectation or failed chain step.
	Failures []string

	// Err carries an execution error message, empty when execution itself
	// succeeded (validation failures go to Failures instead).
	Err string
}

// RunSummary aggregates the verdicts of one fixture run.
type RunSummary struct {
	RunID    uuid.UUID
	Started  time.Time
	Total    int
	Passed   int
	Failed   int
	Verdicts []Verdict
}

// Record appends a verdict and updates the counters.
func (s *RunSummary) Record(v Verdict) {
	s.Verdicts = append(s.Verdicts, v)
	s.Total++
	if v.Passed {
		s.Passed++
	} else {
		s.Failed++
	}
}
