// Package db provides the SQL Server connectivity layer: DSN construction,
// the scoped transactional session the rest of the harness runs inside,
// and the table column cache.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/vvka-141/sptest/pkg/sptest"

	"github.com/vvka-141/sptest/internal/retry"
)

// DefaultPort is the standard SQL Server TCP port.
const DefaultPort = 1433

// connectAttempts is the retry budget for the initial ping. Covers the
// window where a container or paused Azure database is still coming up.
const connectAttempts = 3

// Connector opens a database handle for a connection configuration.
type Connector interface {
	Connect(ctx context.Context) (*sql.DB, error)
}

// NewConnector creates a Connector for the given configuration.
// The configuration is validated here so a missing required setting fails
// before any connection attempt.
func NewConnector(cfg *sptest.ConnectionConfig) (Connector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("connection config is nil: %w", sptest.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &mssqlConnector{cfg: cfg}, nil
}

type mssqlConnector struct {
	cfg *sptest.ConnectionConfig
}

// Connect opens the handle and verifies it with a ping.
func (c *mssqlConnector) Connect(ctx context.Context) (*sql.DB, error) {
	dsn := BuildDSN(c.cfg)

	handle, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sptest.ErrConnectionFailed, err)
	}

	// Transient failures (server still starting, paused Azure database,
	// network blips) are retried with backoff; fatal ones fail immediately.
	executor := retry.NewExecutor(retry.NewSQLServerErrorClassifier(), retry.NewExponentialBackoff(connectAttempts))
	err = executor.Execute(ctx, func(ctx context.Context) error {
		return handle.PingContext(ctx)
	})
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("%w: failed to connect to %s:%d/%s: %v",
			sptest.ErrConnectionFailed, c.cfg.Host, port(c.cfg), c.cfg.Database, err)
	}

	return handle, nil
}

// BuildDSN renders the sqlserver:// connection URL for a configuration.
func BuildDSN(cfg *sptest.ConnectionConfig) string {
	query := url.Values{}
	query.Set("database", cfg.Database)
	if cfg.AppName != "" {
		query.Set("app name", cfg.AppName)
	}
	if cfg.Encrypt != "" {
		query.Set("encrypt", cfg.Encrypt)
	}
	if cfg.TrustServerCert {
		query.Set("TrustServerCertificate", "true")
	}
	if cfg.ConnectTimeout > 0 {
		query.Set("dial timeout", strconv.Itoa(int(cfg.ConnectTimeout.Seconds())))
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, port(cfg)),
		RawQuery: query.Encode(),
	}
	return u.String()
}

func port(cfg *sptest.ConnectionConfig) int {
	if cfg.Port > 0 {
		return cfg.Port
	}
	return DefaultPort
}
