// Package testinfra starts throwaway SQL Server containers for integration
// tests.
package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mssql"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vvka-141/sptest/pkg/sptest"
)

const (
	SQLServerImage    = "mcr.microsoft.com/mssql/server:2022-latest"
	SQLServerUser     = "sa"
	SQLServerPassword = "yourStrong(!)Password"
	SQLServerDB       = "master"
)

// SQLServerContainer wraps a running SQL Server container together with the
// connection settings the harness consumes.
type SQLServerContainer struct {
	*mssql.MSSQLServerContainer
	Config *sptest.ConnectionConfig
}

// StartSQLServer runs a SQL Server container and waits until it accepts
// logins. The returned config points at the container's mapped port.
func StartSQLServer(ctx context.Context) (*SQLServerContainer, error) {
	ctr, err := mssql.Run(ctx,
		SQLServerImage,
		mssql.WithAcceptEULA(),
		mssql.WithPassword(SQLServerPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Recovery is complete").
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start sql server: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	mapped, err := ctr.MappedPort(ctx, "1433/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	cfg := &sptest.ConnectionConfig{
		Host:            host,
		Port:            mapped.Int(),
		Database:        SQLServerDB,
		Username:        SQLServerUser,
		Password:        SQLServerPassword,
		TrustServerCert: true,
		AppName:         "sptest-integration",
		ConnectTimeout:  30 * time.Second,
	}
	return &SQLServerContainer{MSSQLServerContainer: ctr, Config: cfg}, nil
}
