// Package fixture loads and filters JSON test-fixture documents: per-procedure
// case lists declaring parameters or chain configurations, surrounding SQL,
// and expected post-state.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vvka-141/sptest/pkg/sptest"
)

// Document is a fixture file: procedure name to its test cases.
type Document map[string][]Case

// Case is one fixture-declared test case. Exactly one of Parameters or
// ChainConfig drives execution; a case with neither calls the procedure
// with no arguments.
type Case struct {
	CaseID      string `json:"case_id"`
	CaseType    string `json:"case_type"`
	Description string `json:"description"`

	Parameters  *sptest.ParameterSet `json:"parameters"`
	ChainConfig []sptest.ChainStep   `json:"chain_config" validate:"omitempty,dive"`

	PreSQL     []Statement `json:"pre_sql"`
	PostSQL    []Statement `json:"post_sql"`
	CleanupSQL []Statement `json:"cleanup_sql"`

	ExpectedPostState []Expectation `json:"expected_post_state"`
}

// IsChain reports whether the case executes as a chain.
func (c Case) IsChain() bool {
	return len(c.ChainConfig) > 0
}

// Expectation validates one post-SQL query's result: an exact row count
// and/or expected column values on the first row.
type Expectation struct {
	RowCount        *int           `json:"row_count"`
	ExpectedColumns map[string]any `json:"expected_columns"`
}

// Statement is an ad-hoc SQL statement: either a bare string or a
// [sql, params...] array in the fixture JSON.
type Statement struct {
	Text string
	Args []any
}

func (s *Statement) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &s.Text)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("sql statement must be a string or a [sql, params...] array: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("sql statement array cannot be empty")
	}
	if err := json.Unmarshal(parts[0], &s.Text); err != nil {
		return fmt.Errorf("first element of a sql statement array must be the statement text: %w", err)
	}

	for _, raw := range parts[1:] {
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return err
		}
		// A single nested array carries the whole argument list.
		if list, ok := value.([]any); ok && len(parts) == 2 {
			s.Args = list
			return nil
		}
		s.Args = append(s.Args, value)
	}
	return nil
}

func (s Statement) MarshalJSON() ([]byte, error) {
	if len(s.Args) == 0 {
		return json.Marshal(s.Text)
	}
	parts := make([]any, 0, len(s.Args)+1)
	parts = append(parts, s.Text)
	parts = append(parts, s.Args...)
	return json.Marshal(parts)
}

var validate = validator.New()

// Load reads and decodes a fixture document. The .json extension is
// appended when missing. A missing file is ErrFixtureNotFound.
func Load(path string) (Document, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: fixture path is required", sptest.ErrFixtureNotFound)
	}
	if !strings.HasSuffix(path, sptest.FixtureExtension) {
		path += sptest.FixtureExtension
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", sptest.ErrFixtureNotFound, path)
		}
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding fixture %s: %w", path, err)
	}

	for procName, cases := range doc {
		for i, c := range cases {
			if err := validate.Struct(c); err != nil {
				return nil, fmt.Errorf("fixture %s: case %d of %q: %w", path, i+1, procName, err)
			}
		}
	}
	return doc, nil
}

// CasesFor returns the cases declared for a procedure, filtered by case
// type and case id when given. Filters match case-insensitively. Cases
// without an explicit case_id are labeled by sequence position.
func (d Document) CasesFor(procName, caseType, caseID string) []Case {
	var out []Case
	for i, c := range d[procName] {
		if c.CaseID == "" {
			c.CaseID = fmt.Sprintf("case_%d", i+1)
		}
		if caseType != "" && !strings.EqualFold(c.CaseType, caseType) {
			continue
		}
		if caseID != "" && !strings.EqualFold(c.CaseID, caseID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Procedures returns the procedure names the document declares cases for.
func (d Document) Procedures() []string {
	out := make([]string, 0, len(d))
	for name := range d {
		out = append(out, name)
	}
	return out
}
