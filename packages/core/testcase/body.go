package testcase

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// BodyKind tags the variant held by a Body.
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyJSON
	BodyRaw
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyRaw:
		return "raw"
	default:
		return "empty"
	}
}

// Body is a request body template. Raw holds text as written in a sheet cell,
// JSON holds a structured or scalar value from a structured source.
type Body struct {
	Kind  BodyKind
	Value any
	Text  string
}

func EmptyBody() Body {
	return Body{Kind: BodyEmpty}
}

func JSONBody(v any) Body {
	return Body{Kind: BodyJSON, Value: v}
}

func RawBody(s string) Body {
	return Body{Kind: BodyRaw, Text: s}
}

// BodyFromText builds a body from a sheet cell. Blank cells are empty.
func BodyFromText(s string) Body {
	if strings.TrimSpace(s) == "" {
		return EmptyBody()
	}
	return RawBody(s)
}

// BodyFromValue builds a body from a decoded value (YAML, SQLite).
func BodyFromValue(v any) Body {
	switch val := v.(type) {
	case nil:
		return EmptyBody()
	case string:
		return BodyFromText(val)
	case []byte:
		return BodyFromText(string(val))
	case float64:
		if math.IsNaN(val) {
			return EmptyBody()
		}
		return JSONBody(val)
	case float32:
		if math.IsNaN(float64(val)) {
			return EmptyBody()
		}
		return JSONBody(val)
	default:
		return JSONBody(v)
	}
}

// IsEmpty reports whether the body carries nothing.
func (b Body) IsEmpty() bool {
	return b.Kind == BodyEmpty
}

// String renders the body for display. JSON values that cannot be encoded
// fall back to their %v form.
func (b Body) String() string {
	switch b.Kind {
	case BodyRaw:
		return b.Text
	case BodyJSON:
		data, err := json.Marshal(b.Value)
		if err != nil {
			return fmt.Sprintf("%v", b.Value)
		}
		return string(data)
	default:
		return ""
	}
}
