package sptest

// ChainStep describes one step of a chained stored-procedure execution.
//
// Step 1 is distinguished: its full parameter set becomes the BaseParameters
// snapshot that every later step inherits from. Steps 2+ declare only the
// parameters that differ, plus input/output mappings for values that are
// only known at runtime (typically generated identifiers).
type ChainStep struct {
	// Step is the 1-based step number. Zero means "use sequence position".
	Step int `json:"step"`

	// ProcName is the stored procedure to execute.
	ProcName string `json:"sp_name" validate:"required"`

	// Parameters is the full parameter set for step 1, or the overrides
	// applied on top of BaseParameters for steps 2+.
	Parameters *ParameterSet `json:"parameters"`

	// InputMapping injects chain data into parameters before invocation:
	// parameter name -> chain-data key.
	InputMapping map[string]string `json:"input_mapping"`

	// OutputMapping stores the extracted output value into chain data after
	// a successful invocation: parameter name -> chain-data key.
	OutputMapping map[string]string `json:"output_mapping"`
}

// StatusRow is the decoded form of the row-based status protocol: the first
// result row of any chain-participating procedure call, interpreted as
// (code, message, ...payload).
//
// This is an external protocol contract the called procedures must honor,
// not an internal data structure choice: column 0 carries the status code
// (nonzero = success), column 1 a human-readable message, and any remaining
// columns payload such as a newly created identifier.
type StatusRow struct {
	Code    int64
	Message string
	Payload []any
}

// StepResult holds the outcome of a single procedure invocation: the ordered
// result rows and, when output capture was requested, the output-parameter
// mapping (empty, never nil, when the call yields no output parameters).
type StepResult struct {
	Rows         []Row
	OutputParams map[string]any
}

// ChainOutcome is the terminal value of a chain execution.
//
// On failure, FailedStep and Error identify where and why the chain aborted;
// Results still contains every step executed so far (including the failed
// step), and ChainData everything extracted before the abort.
type ChainOutcome struct {
	Success    bool
	FailedStep int
	Error      string

	// Results maps step labels ("step_1", "step_2", ...) to their results.
	Results map[string]*StepResult

	// ChainData is the shared key-value pool populated by output mappings
	// and read by input mappings across steps. It grows monotonically and
	// is never rolled back on step failure.
	ChainData map[string]any
}
