// Package cli wires the sptest commands: fixture runs, catalog inspection,
// and version reporting.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sptest",
	Short: "Stored-procedure test harness for SQL Server",
	Long: `sptest runs JSON-fixture test cases against SQL Server stored procedures:
single calls or chained sequences with parameter inheritance and output
propagation, followed by post-state validation of the resulting rows.

Connection settings come from flags, a sptest.yaml project file, or the
environment (DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD, DB_ENCRYPT).
A .env file in the working directory is loaded automatically. The password
is never accepted as a flag; use DB_PASSWORD.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  13 - Procedure or SQL execution failed
  14 - Fixture file not found
  15 - One or more test cases failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
