package validator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vvka-141/sptest/internal/fixture"
)

// valuesEqual compares an expected fixture value against an actual database
// value. Numeric values compare by magnitude regardless of Go type, so a
// fixture's 42 matches the driver's int64, float64, or DECIMAL string form.
// Everything else falls back to string-rendered equality.
func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	expDec, expOK := toDecimal(expected)
	actDec, actOK := toDecimal(actual)
	if expOK && actOK {
		return expDec.Equal(actDec)
	}
	if expOK != actOK {
		return false
	}

	if eb, ok := expected.(bool); ok {
		ab, ok := actual.(bool)
		return ok && eb == ab
	}

	return fmt.Sprint(expected) == fmt.Sprint(actual)
}

// toDecimal widens numeric shapes into a decimal for exact comparison.
// Booleans and non-numeric strings are not numbers here.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}

// checkExpectation validates one expected-state entry against one recorded
// query result. It returns a failure message per mismatch; an empty slice
// means the expectation holds.
func checkExpectation(index int, exp fixture.Expectation, result statementResult) []string {
	var failures []string

	if result.Err != nil {
		failures = append(failures, fmt.Sprintf("expectation %d: post-state query failed: %v", index+1, result.Err))
		return failures
	}

	if exp.RowCount != nil && len(result.Rows) != *exp.RowCount {
		failures = append(failures, fmt.Sprintf("expectation %d: expected %d row(s), got %d", index+1, *exp.RowCount, len(result.Rows)))
	}

	if len(exp.ExpectedColumns) == 0 {
		return failures
	}
	if len(result.Rows) == 0 {
		failures = append(failures, fmt.Sprintf("expectation %d: expected column values but the query returned no rows", index+1))
		return failures
	}

	first := result.Rows[0]
	for column, expected := range exp.ExpectedColumns {
		actual, ok := first.ByName(column)
		if !ok {
			failures = append(failures, fmt.Sprintf("expectation %d: column %q not present in result", index+1, column))
			continue
		}
		if !valuesEqual(expected, actual) {
			failures = append(failures, fmt.Sprintf("expectation %d: column %q: expected %v, got %v", index+1, column, expected, actual))
		}
	}
	return failures
}

// queryResults filters a statement-result list down to the query statements,
// in order. Expectations index into this sequence.
func queryResults(results []statementResult) []statementResult {
	var out []statementResult
	for _, r := range results {
		if r.IsQuery {
			out = append(out, r)
		}
	}
	return out
}
