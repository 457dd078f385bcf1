package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/db"
	"github.com/vvka-141/sptest/internal/logging"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "List a table's columns in declaration order",
	Long: `Columns reads a table's column names from the catalog, the same lookup
post-state validation uses when matching expected columns case-insensitively.

Example:
  sptest columns Teams -d mydb`,
	Args: cobra.ExactArgs(1),
	RunE: runColumns,
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	addConnectionFlags(columnsCmd)
}

func runColumns(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	table := args[0]

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

	cache := db.NewColumnCache()
	var columns []string
	err = client.WithSession(ctx, func(q sptest.Querier) error {
		fetched, err := cache.Columns(ctx, q, table)
		if err != nil {
			return err
		}
		columns = fetched
		return nil
	})
	if err != nil {
		return err
	}

	for _, column := range columns {
		fmt.Println(column)
	}
	return nil
}
