package chain

import (
	"fmt"
	"strconv"

	"github.com/vvka-141/sptest/pkg/sptest"
)

// decodeStatusRow interprets the first result row of a chain step under the
// row-based status protocol: column 0 = status code, column 1 = message,
// remaining columns = payload. Fewer than two columns is a protocol
// violation and fails the step.
func decodeStatusRow(rows []sptest.Row) (*sptest.StatusRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("procedure returned no result rows; a status row (code, message, ...) is required")
	}
	first := rows[0]
	if first.Len() < sptest.StatusRowMinColumns {
		return nil, fmt.Errorf("status row has %d column(s); at least %d (code, message) are required", first.Len(), sptest.StatusRowMinColumns)
	}

	status := &sptest.StatusRow{
		Code:    coerceCode(first.ByIndex(0)),
		Message: fmt.Sprint(first.ByIndex(1)),
	}
	for i := 2; i < first.Len(); i++ {
		status.Payload = append(status.Payload, first.ByIndex(i))
	}
	return status, nil
}

// statusSuccess applies the success test to a raw status-code value: the
// code must be non-null, truthy, and numerically nonzero. Any one failing
// condition fails the step.
func statusSuccess(code any) bool {
	switch v := code.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		return n != 0
	}
	return false
}

// coerceCode folds a raw status-code value into the protocol's integer form.
// Values that carry no integer reading coerce to zero.
func coerceCode(code any) int64 {
	switch v := code.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(n)
		}
	}
	return 0
}

// extractOutput scans a status row's columns from last to first and returns
// the first strictly-positive numeric value. Booleans are excluded: a bit
// column reading true is a flag, not an identifier.
func extractOutput(row sptest.Row) (any, bool) {
	for i := row.Len() - 1; i >= 0; i-- {
		value := row.ByIndex(i)
		switch v := value.(type) {
		case int:
			if v > 0 {
				return v, true
			}
		case int32:
			if v > 0 {
				return v, true
			}
		case int64:
			if v > 0 {
				return v, true
			}
		case float32:
			if v > 0 {
				return v, true
			}
		case float64:
			if v > 0 {
				return v, true
			}
		}
	}
	return nil, false
}
