package sptest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParameterSet is an insertion-ordered mapping from parameter name to value.
//
// Binding in the generated call text is name-addressed, so ordering never
// changes call semantics — but iteration order must still be deterministic
// for reproducible call text and logs. Go maps do not guarantee iteration
// order, so ParameterSet keeps a parallel name slice.
//
// Names are unique within one set; Set on an existing name overwrites the
// value in place without changing its position.
//
// Values are dynamic but constrained: nil, bool, int64, float64, string,
// time.Time, civil.Date, civil.Time, or decimal.Decimal.
type ParameterSet struct {
	names  []string
	values map[string]any
}

// NewParameterSet creates an empty ParameterSet.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{values: make(map[string]any)}
}

// Set stores a value under name, appending the name if it is new.
func (p *ParameterSet) Set(name string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[name]; !exists {
		p.names = append(p.names, name)
	}
	p.values[name] = value
}

// Get returns the value stored under name.
func (p *ParameterSet) Get(name string) (any, bool) {
	if p == nil || p.values == nil {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Names returns the parameter names in insertion order.
// The returned slice is a copy and safe to retain.
func (p *ParameterSet) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of parameters in the set.
func (p *ParameterSet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Clone returns a deep copy of the set. Values are scalars (see type doc),
// so copying the map and name slice is sufficient.
func (p *ParameterSet) Clone() *ParameterSet {
	if p == nil {
		return NewParameterSet()
	}
	out := &ParameterSet{
		names:  make([]string, len(p.names)),
		values: make(map[string]any, len(p.values)),
	}
	copy(out.names, p.names)
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Merge applies every entry of other on top of p, in other's insertion
// order. Existing names are overwritten in place; new names are appended.
func (p *ParameterSet) Merge(other *ParameterSet) {
	if other == nil {
		return
	}
	for _, name := range other.names {
		p.Set(name, other.values[name])
	}
}

// StrippedContext returns a plain map keyed by parameter names with the
// leading sigil removed. Used as the interpolation context for fixture
// pre/post/cleanup SQL.
func (p *ParameterSet) StrippedContext() map[string]any {
	if p == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(p.names))
	for _, name := range p.names {
		out[StripSigil(name)] = p.values[name]
	}
	return out
}

// String renders the set for logs: names in order with their values.
func (p *ParameterSet) String() string {
	if p == nil {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", name, p.values[name])
	}
	b.WriteByte('}')
	return b.String()
}

// UnmarshalJSON decodes a JSON object preserving key order.
//
// encoding/json's map decoding loses order, so this walks the token stream
// directly. Numbers without a fraction or exponent decode as int64;
// everything else numeric decodes as float64.
func (p *ParameterSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("parameters must be a JSON object, got %v", tok)
	}

	p.names = nil
	p.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in parameters object", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		value, err := decodeScalar(raw)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}
		p.Set(key, value)
	}

	// Consume closing '}'
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON renders the set as a JSON object in insertion order.
func (p *ParameterSet) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[name])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// decodeScalar converts one JSON value into the constrained dynamic types.
func decodeScalar(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch tv := v.(type) {
	case json.Number:
		s := tv.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := tv.Int64(); err == nil {
				return n, nil
			}
		}
		f, err := tv.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case nil, bool, string:
		return tv, nil
	default:
		return nil, fmt.Errorf("value must be a scalar, got %T", v)
	}
}

// StripSigil removes the leading parameter sigil from a name, if present.
func StripSigil(name string) string {
	return strings.TrimPrefix(name, ParamSigil)
}
