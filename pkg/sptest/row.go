package sptest

import "strings"

// Row is a small value type over one fetched result row, addressable both
// by position and by column name. It is constructed once per row from the
// driver's native values plus the parallel column-name slice.
type Row struct {
	columns []string
	values  []any
}

// NewRow builds a Row from column names and values. The slices must be
// parallel; Row retains them without copying.
func NewRow(columns []string, values []any) Row {
	return Row{columns: columns, values: values}
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return len(r.values)
}

// ByIndex returns the value at position i, or nil if out of range.
func (r Row) ByIndex(i int) any {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// ByName returns the value for the named column. Matching is
// case-insensitive, per the validator's column comparison rules.
func (r Row) ByName(name string) (any, bool) {
	for i, col := range r.columns {
		if strings.EqualFold(col, name) {
			return r.values[i], true
		}
	}
	return nil, false
}

// Columns returns the column names of the row.
func (r Row) Columns() []string {
	return r.columns
}

// Values returns the raw values of the row in column order.
func (r Row) Values() []any {
	return r.values
}
