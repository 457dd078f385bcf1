// Package normalize converts parameter values to formats compatible with
// the declared SQL type of each stored-procedure argument.
//
// Values are not converted between types; only formatting is applied, and
// only when explicit type metadata is available. Without a declared type a
// value is always returned unchanged — normalization never guesses.
package normalize

import "strings"

// SQLType is a declared SQL parameter type tag. The catalog's raw DATA_TYPE
// values collapse into these coarse tags; unknown types carry their
// uppercased name and fall through normalization unchanged.
type SQLType string

const (
	TypeInt      SQLType = "INT"
	TypeFloat    SQLType = "FLOAT"
	TypeDecimal  SQLType = "DECIMAL"
	TypeBit      SQLType = "BIT"
	TypeVarChar  SQLType = "VARCHAR"
	TypeNVarChar SQLType = "NVARCHAR"
	TypeDate     SQLType = "DATE"
	TypeTime     SQLType = "TIME"
	TypeDateTime SQLType = "DATETIME"
)

// TypeMapping maps parameter names to their declared SQL type tags.
// Absence of an entry for a name means "no normalization applied".
type TypeMapping map[string]SQLType

// TagForDataType collapses a raw INFORMATION_SCHEMA DATA_TYPE into its tag.
func TagForDataType(dataType string) SQLType {
	switch strings.ToUpper(dataType) {
	case "INT", "BIGINT", "SMALLINT", "TINYINT":
		return TypeInt
	case "FLOAT", "REAL":
		return TypeFloat
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		return TypeDecimal
	case "BIT":
		return TypeBit
	case "VARCHAR", "CHAR", "TEXT":
		return TypeVarChar
	case "NVARCHAR", "NCHAR", "NTEXT":
		return TypeNVarChar
	case "DATE":
		return TypeDate
	case "TIME":
		return TypeTime
	case "DATETIME", "DATETIME2", "SMALLDATETIME", "DATETIMEOFFSET":
		return TypeDateTime
	default:
		return SQLType(strings.ToUpper(dataType))
	}
}

// Output formats for date and time values, per the T-SQL literal convention.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)
