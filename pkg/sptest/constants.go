package sptest

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess           = 0  // Run completed, all cases passed
	ExitGeneralError      = 1  // Unknown or unclassified error
	ExitUsageError        = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic             = 3  // Internal panic (unexpected crash)
	ExitConfigError       = 10 // Invalid configuration or parameters
	ExitConnectionError   = 11 // Failed to connect to database
	ExitContractViolation = 12 // Unsupported parameter-set shape
	ExitExecutionFailed   = 13 // SQL or procedure execution failed
	ExitFixtureMissing    = 14 // Fixture file not found
	ExitCasesFailed       = 15 // One or more fixture cases failed validation
)

const (
	// ParamSigil is the prefix marking a parameter name as a named SQL
	// parameter in fixture files (T-SQL convention: @param_name).
	ParamSigil = "@"

	// StatusRowMinColumns is the minimum number of columns a status row
	// must carry: (code, message). Anything narrower is malformed.
	StatusRowMinColumns = 2

	// FixtureExtension is appended to fixture names given without one.
	FixtureExtension = ".json"

	// MaxErrorPreviewLength is the maximum number of characters shown
	// in error messages when previewing failed SQL statements.
	// This prevents overwhelming the console with large statement errors.
	MaxErrorPreviewLength = 200
)
