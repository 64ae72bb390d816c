package http

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
)

// EncodeBody turns a resolved body into wire bytes. ok is false when no body
// should be sent at all, in which case no Content-Type is set either.
func EncodeBody(b testcase.Body) (payload []byte, ok bool) {
	switch b.Kind {
	case testcase.BodyRaw:
		return encodeText(b.Text)
	case testcase.BodyJSON:
		return encodeValue(b.Value)
	default:
		return nil, false
	}
}

func encodeText(s string) ([]byte, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil, false
	}
	return []byte(s), true
}

func encodeValue(v any) ([]byte, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		return encodeText(val)
	case float64:
		if math.IsNaN(val) {
			return nil, false
		}
	case float32:
		if math.IsNaN(float64(val)) {
			return nil, false
		}
	}
	return marshalCompact(v)
}

// marshalCompact encodes v as compact JSON without HTML escaping.
func marshalCompact(v any) ([]byte, bool) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, false
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), true
}
