package capture

import (
	"github.com/tidwall/gjson"
)

// DefaultKeys are tried in order against the top-level response object.
var DefaultKeys = []string{"id", "task_id"}

type Extractor struct {
	keys []string
}

func NewExtractor(keys ...string) *Extractor {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	return &Extractor{keys: keys}
}

func (e *Extractor) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Extract returns the value of the first configured key present in the
// top-level JSON object of text. Non-JSON text, non-object roots, absent keys
// and a null under the first present key all report ok=false.
func (e *Extractor) Extract(text string) (value any, ok bool) {
	if !gjson.Valid(text) {
		return nil, false
	}
	root := gjson.Parse(text)
	if !root.IsObject() {
		return nil, false
	}

	fields := root.Map()
	for _, k := range e.keys {
		field, present := fields[k]
		if !present {
			continue
		}
		return convert(field)
	}
	return nil, false
}

// convert keeps strings as text and every other value as its JSON literal,
// so 7 is saved as "7" and 1.0 as "1.0".
func convert(r gjson.Result) (any, bool) {
	switch r.Type {
	case gjson.Null:
		return nil, false
	case gjson.String:
		return r.String(), true
	default:
		return r.Raw, true
	}
}

// Extract is a shorthand for NewExtractor(keys...).Extract(text).
func Extract(text string, keys ...string) (any, bool) {
	return NewExtractor(keys...).Extract(text)
}
