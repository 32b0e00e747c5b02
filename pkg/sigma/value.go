// Package sigma holds the data model shared by every stage of the
// transpiler: the tagged value type, the rule predicate/operator sum type,
// the parsed Sigma header, and the intermediate representation that backend
// emitters walk.
package sigma

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the underlying representation of a Value.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
	KindNull
	KindArray
)

// Value is a tagged field value decoded from a Sigma rule. Arrays only
// appear transiently during detection lowering: by the time a Value is
// attached to a leaf Operator it is always scalar, since list-valued keys
// are desugared into Any/All during lowering.
type Value struct {
	Kind  Kind
	Text  string
	Int   int64
	Float float64
	Bool  bool
	Array []Value
}

// Text constructs a text-kind value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Int constructs an integer-kind value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float constructs a float-kind value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Bool constructs a boolean-kind value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Null constructs the null value.
func Null() Value { return Value{Kind: KindNull} }

// Array constructs an array-kind value.
func Array(vs []Value) Value { return Value{Kind: KindArray, Array: vs} }

// IsArray reports whether the value is an array.
func (v Value) IsArray() bool { return v.Kind == KindArray }

// String coerces the value to its string form. This is the single place
// that defines how a Value is rendered into a query literal before a
// backend applies its own quoting/escaping.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNull:
		return ""
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// ValueFromAny coerces a generically-decoded YAML scalar (string, int,
// float64, bool, nil, or []interface{}) into a tagged Value.
func ValueFromAny(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case string:
		return Text(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		if t == float64(int64(t)) {
			return Int(int64(t))
		}
		return Float(t)
	case []interface{}:
		vals := make([]Value, len(t))
		for i, e := range t {
			vals[i] = ValueFromAny(e)
		}
		return Array(vals)
	default:
		return Text(fmt.Sprintf("%v", t))
	}
}
