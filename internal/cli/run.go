package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/chain"
	"github.com/vvka-141/sptest/internal/logging"
	"github.com/vvka-141/sptest/internal/normalize"
	"github.com/vvka-141/sptest/internal/params"
	"github.com/vvka-141/sptest/internal/procedures"
	"github.com/vvka-141/sptest/internal/validator"
)

var runCmd = &cobra.Command{
	Use:   "run <fixture>",
	Short: "Run fixture test cases against stored procedures",
	Long: `Run executes the test cases declared in a JSON fixture file.

A fixture maps stored-procedure names to case lists. Each case declares
either a flat parameter set (single call) or a chain_config (ordered steps
with parameter inheritance and output propagation), plus optional pre/post/
cleanup SQL and expected post-state.

The .json extension is appended to the fixture path when missing.

Examples:
  # Run every case in the fixture
  sptest run ./testdata/teams -d mydb

  # Only the cases of one procedure
  sptest run ./testdata/teams --proc usp_CreateTeam

  # Only positive cases
  sptest run ./testdata/teams --proc usp_CreateTeam --case-type positive

  # A single case, with a parameter override
  sptest run ./testdata/teams --case-id create_ok --param strName=Alpha`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	runProc       string
	runCaseType   string
	runCaseID     string
	runParams     []string
	runParamsFile string
)

func init() {
	rootCmd.AddCommand(runCmd)
	addConnectionFlags(runCmd)

	runCmd.Flags().StringVar(&runProc, "proc", "", "Run only this procedure's cases")
	runCmd.Flags().StringVar(&runCaseType, "case-type", "", "Filter cases by type (positive, negative, edge)")
	runCmd.Flags().StringVar(&runCaseID, "case-id", "", "Run a single case by id")
	runCmd.Flags().StringSliceVar(&runParams, "param", nil, "Parameter overrides as key=value pairs")
	runCmd.Flags().StringVar(&runParamsFile, "params-file", "", "Load parameter overrides from a .env-style file")
}

// buildRunConfig assembles the run configuration from flags and parameter
// sources. CLI --param values override file-sourced values.
func buildRunConfig(fixturePath string, verbose bool) (sptest.RunConfig, error) {
	overrides := make(map[string]string)
	if runParamsFile != "" {
		content, err := os.ReadFile(runParamsFile)
		if err != nil {
			return sptest.RunConfig{}, fmt.Errorf("reading params file: %w", err)
		}
		fileParams, err := params.ParseEnvFile(content)
		if err != nil {
			return sptest.RunConfig{}, fmt.Errorf("parsing params file %s: %w", runParamsFile, err)
		}
		overrides = fileParams
	}

	cliParams, err := params.ParseKeyValuePairs(runParams)
	if err != nil {
		return sptest.RunConfig{}, fmt.Errorf("invalid parameter format: %w", err)
	}
	for k, v := range cliParams {
		overrides[k] = v
	}

	cfg := sptest.RunConfig{
		FixturePath: fixturePath,
		ProcName:    runProc,
		CaseType:    runCaseType,
		CaseID:      runCaseID,
		Parameters:  overrides,
		Verbose:     verbose,
	}
	return cfg, cfg.Validate()
}

func runRun(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildRunConfig(args[0], verbose)
	if err != nil {
		return err
	}

	cc, err := resolveConnection(verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	ctx := context.Background()

	client, cleanup, err := openClient(ctx, cc, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	catalog := procedures.NewCatalog(client, logger)
	normalizer := normalize.New(logger)
	invoker := procedures.NewInvoker(client, catalog, normalizer, logger)
	runner := validator.NewRunner(client, invoker, logger, validator.NewReporter(os.Stdout))

	_, err = runner.Run(ctx, cfg)
	return err
}

var _ chain.ProcRunner = (*procedures.Invoker)(nil)
