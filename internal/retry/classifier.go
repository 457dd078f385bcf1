package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	mssql "github.com/microsoft/go-mssqldb"
)

// SQL Server error numbers for transient conditions.
// See: https://learn.microsoft.com/en-us/sql/relational-databases/errors-events/
const (
	// Engine-level
	sqlErrDeadlockVictim = 1205

	// Transport-level
	sqlErrTransportFailure   = 121
	sqlErrSemaphoreTimeout   = 64
	sqlErrConnectionBroken   = 233
	sqlErrPhysicalConnection = 20

	// Azure SQL transient conditions
	sqlErrDatabaseUnavailable = 4060
	sqlErrResourceLimitSoft   = 10928
	sqlErrResourceLimitHard   = 10929
	sqlErrServiceError        = 40197
	sqlErrServiceBusy         = 40501
	sqlErrDatabasePaused      = 40613
	sqlErrNotEnoughResources  = 49918
	sqlErrTooManyOperations   = 49919
	sqlErrTooManyRequests     = 49920
)

// SQLServerErrorClassifier implements ErrorClassifier for SQL Server errors.
type SQLServerErrorClassifier struct{}

// NewSQLServerErrorClassifier creates a new SQL Server error classifier.
func NewSQLServerErrorClassifier() *SQLServerErrorClassifier {
	return &SQLServerErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *SQLServerErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// Check for SQL Server-specific errors
	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		return c.isTransientSQLError(sqlErr)
	}

	// Check for network-level errors
	if c.isNetworkError(err) {
		return true
	}

	// Check for connection errors
	if c.isConnectionError(err) {
		return true
	}

	return false
}

// isTransientSQLError checks SQL Server error numbers for transient conditions.
func (c *SQLServerErrorClassifier) isTransientSQLError(sqlErr mssql.Error) bool {
	switch sqlErr.SQLErrorNumber() {
	case sqlErrDeadlockVictim:
		return true

	case sqlErrTransportFailure,
		sqlErrSemaphoreTimeout,
		sqlErrConnectionBroken,
		sqlErrPhysicalConnection:
		return true

	case sqlErrDatabaseUnavailable,
		sqlErrResourceLimitSoft,
		sqlErrResourceLimitHard,
		sqlErrServiceError,
		sqlErrServiceBusy,
		sqlErrDatabasePaused,
		sqlErrNotEnoughResources,
		sqlErrTooManyOperations,
		sqlErrTooManyRequests:
		return true
	}

	return false
}

// isNetworkError checks for network-level errors.
func (c *SQLServerErrorClassifier) isNetworkError(err error) bool {
	// DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		// Temporary DNS failures are retryable
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	// Network operation errors
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		// Temporary network errors are retryable
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}

		// Check underlying error
		if opErr.Err != nil {
			// Connection refused (server not ready)
			if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
				return true
			}

			// Connection reset by peer
			if errors.Is(opErr.Err, syscall.ECONNRESET) {
				return true
			}

			// Network unreachable
			if errors.Is(opErr.Err, syscall.ENETUNREACH) {
				return true
			}

			// Host unreachable
			if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
				return true
			}
		}
	}

	return false
}

// isConnectionError checks for connection-related errors by message pattern.
func (c *SQLServerErrorClassifier) isConnectionError(err error) bool {
	errMsg := err.Error()

	// Check for common connection error messages
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"connection failure",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"server closed the connection",
		"unexpected eof",
		"tds stream",
		"context deadline exceeded", // May be transient if external timeout
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(strings.ToLower(errMsg), pattern) {
			return true
		}
	}

	return false
}
