// Package inputs turns raw step inputs into the shapes the renderer needs.
//
// Inputs arrive as text from the runner, or as arbitrary JSON values when a
// deployment payload overrides them. Raw records which of the two it is, and
// the normalizers in this package parse it without ever failing: malformed
// input degrades to a safe default instead of stopping the run.
package inputs

import "encoding/json"

// Kind discriminates how a raw input was supplied.
type Kind int

const (
	// KindAbsent means no source supplied the input.
	KindAbsent Kind = iota
	// KindText is a string: a runner input or a string-valued payload field.
	KindText
	// KindStructured is a non-string JSON value from a deployment payload.
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindStructured:
		return "structured"
	default:
		return "absent"
	}
}

// Raw is an input value before normalization.
type Raw struct {
	Kind  Kind
	Text  string
	Value any
}

// Absent returns a Raw for an input nobody supplied.
func Absent() Raw {
	return Raw{Kind: KindAbsent}
}

// Text returns a Raw holding s.
func Text(s string) Raw {
	return Raw{Kind: KindText, Text: s}
}

// FromValue lifts a decoded JSON value into a Raw. Strings become KindText so
// they go through the same parse step as runner inputs.
func FromValue(v any) Raw {
	switch val := v.(type) {
	case nil:
		return Absent()
	case string:
		return Text(val)
	default:
		return Raw{Kind: KindStructured, Value: val}
	}
}

// Truthy reports whether v counts as set for overriding purposes.
// nil, false, "" and numeric zero are falsy. A payload field set to false or
// 0 therefore cannot override an input; it is treated as absent.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}
