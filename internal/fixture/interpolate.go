package fixture

import (
	"fmt"
	"regexp"

	"github.com/vvka-141/sptest/pkg/sptest"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// BuildContext assembles the interpolation context for a case's ad-hoc SQL:
// the case parameters with their leading sigil stripped, plus the chain data
// accumulated so far. Chain data wins on key collision since it carries
// values generated at runtime.
func BuildContext(params *sptest.ParameterSet, chainData map[string]any) map[string]any {
	ctx := make(map[string]any)
	if params != nil {
		for name, value := range params.StrippedContext() {
			ctx[name] = value
		}
	}
	for key, value := range chainData {
		ctx[key] = value
	}
	return ctx
}

// Interpolate replaces {key} placeholders in a SQL statement with context
// values. Unknown placeholders are left untouched so that T-SQL braces not
// meant for interpolation survive.
func Interpolate(text string, ctx map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := ctx[key]; ok {
			return fmt.Sprint(value)
		}
		return match
	})
}
