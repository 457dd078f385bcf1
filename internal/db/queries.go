package db

// SQL query constants for catalog lookups.
// Centralizing queries here keeps SQL separate from Go code.

const (
	// queryTableColumns reads a table's column names in declaration order.
	// Parameter @table: table name.
	queryTableColumns = `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = @table
		ORDER BY ORDINAL_POSITION
	`
)
