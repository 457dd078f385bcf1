package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sptest/internal/logging"
	"github.com/vvka-141/sptest/internal/procedures"
)

var procsCmd = &cobra.Command{
	Use:   "procs [filter]",
	Short: "List stored procedures",
	Long: `Procs lists the database's stored procedures, optionally filtered by a
name substring.

Examples:
  sptest procs -d mydb
  sptest procs team -d mydb`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcs,
}

var procCmd = &cobra.Command{
	Use:   "proc <name>",
	Short: "Show a stored procedure's parameters and definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcDetails,
}

var procShowDefinition bool

func init() {
	rootCmd.AddCommand(procsCmd)
	rootCmd.AddCommand(procCmd)
	addConnectionFlags(procsCmd)
	addConnectionFlags(procCmd)
	procCmd.Flags().BoolVar(&procShowDefinition, "definition", false, "Print the full routine definition")
}

func runProcs(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	filter := ""
	if len(args) > 0 {
		filter = args[0]
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
	names, err := catalog.List(ctx, filter)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("No procedures found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runProcDetails(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	procName := args[0]

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
	details, err := catalog.Details(ctx, procName)
	if err != nil {
		return err
	}
	metas, err := catalog.Parameters(ctx, procName)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", details.Name, details.RoutineType)
	fmt.Printf("Created:      %s\n", details.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("Last altered: %s\n", details.LastAltered.Format("2006-01-02 15:04:05"))

	if len(metas) == 0 {
		fmt.Println("No declared parameters")
	} else {
		fmt.Printf("\nParameters:\n")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, meta := range metas {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", meta.Name, meta.DataType, meta.Mode)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if procShowDefinition && details.Definition != "" {
		fmt.Printf("\n%s\n", details.Definition)
	}
	return nil
}
