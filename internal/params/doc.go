// Package params parses user-supplied parameter overrides: --param
// key=value flags and .env-style parameter files. Values stay strings
// here; type-aware coercion happens during normalization against the
// procedure's declared parameter types.
package params
