package onepager

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Value is a loosely typed payload field. Form fields arrive as strings,
// numbers or booleans depending on the client, so values keep their JSON
// type and are rendered the same way regardless of it.
type Value struct {
	raw     any
	present bool
}

// StringValue wraps s as a present string value.
func StringValue(s string) Value {
	return Value{raw: s, present: true}
}

// NumberValue wraps a JSON number literal such as "12" or "1.50".
func NumberValue(n string) Value {
	return Value{raw: json.Number(n), present: true}
}

// NullValue is an explicit JSON null.
func NullValue() Value {
	return Value{present: true}
}

// UnmarshalJSON keeps numbers as literals so integers are not widened to floats.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	v.raw = raw
	v.present = true
	return nil
}

// MarshalJSON writes the value back in its original JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// Present reports whether the field was supplied at all.
func (v Value) Present() bool {
	return v.present
}

// IsNull reports whether the field is absent or null.
func (v Value) IsNull() bool {
	return v.raw == nil
}

// Raw returns the decoded JSON value (string, json.Number, bool, nil,
// map[string]any or []any).
func (v Value) Raw() any {
	return v.raw
}

// Str returns the value when it is a JSON string.
func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Empty reports whether the value counts as blank: absent, null, "", zero,
// false or an empty collection.
func (v Value) Empty() bool {
	if !v.present {
		return true
	}
	return !truthy(v.raw)
}

// String renders the value for a table cell. Absent values render as "".
func (v Value) String() string {
	if !v.present {
		return ""
	}
	return render(v.raw, false)
}

func truthy(raw any) bool {
	switch x := raw.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		if isFloatLiteral(string(x)) {
			f, err := x.Float64()
			return err != nil || f != 0
		}
		n, ok := new(big.Int).SetString(string(x), 10)
		return !ok || n.Sign() != 0
	case map[string]any:
		return len(x) > 0
	case []any:
		return len(x) > 0
	}
	return true
}

// render formats raw the way payload values have always been shown on the
// slide: integers verbatim, floats in shortest round-trip form with a
// trailing ".0" for whole numbers, True/False/None for the JSON literals.
// quoted is set inside collections, where strings are quoted.
func render(raw any, quoted bool) string {
	switch x := raw.(type) {
	case nil:
		return "None"
	case string:
		if quoted {
			return quoteString(x)
		}
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case json.Number:
		return renderNumber(string(x))
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = render(e, true)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = quoteString(k) + ": " + render(x[k], true)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprint(raw)
}

func renderNumber(lit string) string {
	if !isFloatLiteral(lit) {
		if n, ok := new(big.Int).SetString(lit, 10); ok {
			return n.String()
		}
		return lit
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		if math.IsInf(f, 0) {
			return formatFloat(f)
		}
		return lit
	}
	return formatFloat(f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func isFloatLiteral(lit string) bool {
	return strings.ContainsAny(lit, ".eE")
}

func quoteString(s string) string {
	q := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = `"`
	}
	var b strings.Builder
	b.WriteString(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case string(r) == q:
			b.WriteString(`\` + q)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(q)
	return b.String()
}
