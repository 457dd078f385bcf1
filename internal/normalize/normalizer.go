package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"

	"github.com/vvka-141/sptest/pkg/sptest"
)

// Normalizer applies type-aware formatting to parameter values.
//
// Normalization failure must never abort execution: any unexpected panic
// while normalizing a single value is swallowed and the original value is
// returned, forfeiting only the formatting of that one value.
type Normalizer struct {
	logger sptest.Logger
}

// New creates a Normalizer. Panics on a nil logger.
func New(logger sptest.Logger) *Normalizer {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Normalizer{logger: logger}
}

// Normalize formats one parameter value for its declared SQL type.
//
// A nil value is returned as nil unconditionally. An empty sqlType means no
// type metadata is available and the value passes through unchanged.
func (n *Normalizer) Normalize(name string, value any, sqlType SQLType) (result any) {
	if value == nil {
		return nil
	}
	if sqlType == "" {
		n.logger.Verbose("no declared SQL type for %q - value returned unchanged", name)
		return value
	}

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("failed to normalize %q (value %v, type %s): %v", name, value, sqlType, r)
			result = value
		}
	}()

	switch sqlType {
	case TypeDate:
		return normalizeDate(value)
	case TypeDateTime:
		return normalizeDateTime(value)
	case TypeTime:
		return normalizeTime(value)
	case TypeInt:
		return n.normalizeInt(name, value)
	case TypeBit:
		return normalizeBit(value)
	case TypeDecimal:
		return normalizeDecimal(value)
	default:
		n.logger.Verbose("no format conversion for %q type %s - value returned unchanged", name, sqlType)
		return value
	}
}

// NormalizeSet applies Normalize to every entry of a parameter set,
// independently: a failure on one key does not affect the others.
// The input set is not mutated.
func (n *Normalizer) NormalizeSet(params *sptest.ParameterSet, mappings TypeMapping) *sptest.ParameterSet {
	out := sptest.NewParameterSet()
	if params == nil {
		return out
	}
	for _, name := range params.Names() {
		value, _ := params.Get(name)
		normalized := n.Normalize(name, value, mappings[name])
		out.Set(name, normalized)
		if normalized != value {
			n.logger.Verbose("normalized %q: %v -> %v", name, value, normalized)
		}
	}
	return out
}

// normalizeDate formats date values to YYYY-MM-DD.
//
// Bare dates and timestamps format; integer zero becomes nil (sentinel for
// an unset date parameter); strings pass through unchanged — they may be
// ISO, US, or SQL formats the server parses itself.
func normalizeDate(value any) any {
	switch v := value.(type) {
	case civil.Date:
		return fmt.Sprintf("%04d-%02d-%02d", v.Year, v.Month, v.Day)
	case time.Time:
		return v.Format(DateLayout)
	}
	if i, ok := toInt64(value); ok && i == 0 {
		return nil
	}
	return value
}

// normalizeDateTime formats datetime values to YYYY-MM-DD HH:MM:SS.
// Bare dates get midnight appended; integer zero becomes nil.
func normalizeDateTime(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format(DateTimeLayout)
	case civil.Date:
		return fmt.Sprintf("%04d-%02d-%02d 00:00:00", v.Year, v.Month, v.Day)
	}
	if i, ok := toInt64(value); ok && i == 0 {
		return nil
	}
	return value
}

// normalizeTime formats time values to HH:MM:SS. Only actual time values
// format; everything else passes through unchanged.
func normalizeTime(value any) any {
	switch v := value.(type) {
	case civil.Time:
		return fmt.Sprintf("%02d:%02d:%02d", v.Hour, v.Minute, v.Second)
	case time.Time:
		return v.Format(TimeLayout)
	}
	return value
}

// normalizeInt converts values for integer-family parameters.
func (n *Normalizer) normalizeInt(name string, value any) any {
	switch v := value.(type) {
	case string:
		stripped := strings.TrimSpace(v)

		// A date string routed to an integer parameter is left untouched
		// rather than corrupted by numeric parsing.
		if LooksLikeDate(stripped) {
			n.logger.Verbose("parameter %q has date string %q but integer type - returning as-is", name, v)
			return v
		}
		if stripped == "" {
			return int64(0)
		}
		f, err := strconv.ParseFloat(stripped, 64)
		if err != nil {
			n.logger.Error("cannot convert string %q to int, passing as-is", v)
			return v
		}
		return int64(f)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case float64:
		return int64(v)
	}
	return value
}

// normalizeBit converts values for bit parameters to 0/1.
func normalizeBit(value any) any {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return int64(0)
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return v
		}
		if i != 0 {
			return int64(1)
		}
		return int64(0)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	}
	if i, ok := toInt64(value); ok {
		if i != 0 {
			return int64(1)
		}
		return int64(0)
	}
	return value
}

// normalizeDecimal maps empty strings to 0; all other values pass through
// unchanged. No precision coercion happens here — the call layer handles
// textual decimals.
func normalizeDecimal(value any) any {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return int64(0)
	}
	return value
}

// toInt64 extracts an integer from the integer kinds values take in
// practice. Booleans are deliberately excluded.
func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}
