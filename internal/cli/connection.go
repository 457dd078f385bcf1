package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/config"
	"github.com/vvka-141/sptest/internal/db"
)

// Connection flags, shared by every command that talks to the database.
var (
	flagHost      string
	flagPort      int
	flagUsername  string
	flagDatabase  string
	flagEncrypt   string
	flagTrustCert bool
	flagTimeout   time.Duration
	flagConfigDir string
)

func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagHost, "host", "",
		"SQL Server host (default: $DB_HOST or sptest.yaml)")
	cmd.Flags().IntVarP(&flagPort, "port", "p", 0,
		"SQL Server port (default: 1433, or $DB_PORT)")
	cmd.Flags().StringVarP(&flagUsername, "username", "U", "",
		"SQL Server login (default: $DB_USER)")
	cmd.Flags().StringVarP(&flagDatabase, "database", "d", "",
		"Target database name (default: $DB_NAME)")
	cmd.Flags().StringVar(&flagEncrypt, "encrypt", "",
		"Transport encryption: disable|false|true|strict (default: driver default, or $DB_ENCRYPT)")
	cmd.Flags().BoolVar(&flagTrustCert, "trust-server-cert", false,
		"Skip server certificate validation")
	cmd.Flags().DurationVar(&flagTimeout, "connect-timeout", 0,
		"Connection dial timeout (default: driver default)")
	cmd.Flags().StringVar(&flagConfigDir, "config-dir", ".",
		"Directory containing sptest.yaml")
}

// resolveConnection layers connection settings: sptest.yaml, then the
// environment, then explicit flags. The password comes from $DB_PASSWORD
// only; it is never a flag.
func resolveConnection(verbose bool) (*sptest.ConnectionConfig, error) {
	// A .env file participates in the environment layer if present.
	_ = godotenv.Load()

	project, err := config.Load(flagConfigDir)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("loading %s: %w", config.ConfigFileName, err)
	}

	cc := config.FromEnv(project)
	if flagHost != "" {
		cc.Host = flagHost
	}
	if flagPort > 0 {
		cc.Port = flagPort
	}
	if flagUsername != "" {
		cc.Username = flagUsername
	}
	if flagDatabase != "" {
		cc.Database = flagDatabase
	}
	if flagEncrypt != "" {
		cc.Encrypt = flagEncrypt
	}
	if flagTrustCert {
		cc.TrustServerCert = true
	}
	if flagTimeout > 0 {
		cc.ConnectTimeout = flagTimeout
	}

	if err := cc.Validate(); err != nil {
		return nil, err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Connection resolved:\n")
		fmt.Fprintf(os.Stderr, "  Host: %s\n", cc.Host)
		fmt.Fprintf(os.Stderr, "  Port: %d\n", port(cc))
		fmt.Fprintf(os.Stderr, "  User: %s\n", cc.Username)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cc.Database)
	}
	return cc, nil
}

func port(cc *sptest.ConnectionConfig) int {
	if cc.Port > 0 {
		return cc.Port
	}
	return db.DefaultPort
}

// openClient connects and wraps the handle in a session-scoped client.
// The returned cleanup closes the underlying pool.
func openClient(ctx context.Context, cc *sptest.ConnectionConfig, logger sptest.Logger) (*db.Client, func(), error) {
	connector, err := db.NewConnector(cc)
	if err != nil {
		return nil, nil, err
	}
	handle, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	client := db.NewClient(handle, logger)
	return client, func() { _ = client.Close() }, nil
}
