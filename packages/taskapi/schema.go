package taskapi

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const createSchema = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "minLength": 1, "maxLength": 200},
    "description": {"type": ["string", "null"], "maxLength": 2000}
  }
}`

const updateSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": ["string", "null"], "minLength": 1, "maxLength": 200},
    "description": {"type": ["string", "null"], "maxLength": 2000},
    "completed": {"type": ["boolean", "null"]}
  }
}`

const rootField = "(root)"

var (
	createValidator = mustSchema(createSchema)
	updateValidator = mustSchema(updateSchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic("taskapi: invalid schema: " + err.Error())
	}
	return schema
}

// ValidationError is one entry of a 422 response.
type ValidationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// validate checks body against schema. A nil result means the body is valid.
func validate(schema *gojsonschema.Schema, body []byte) []ValidationError {
	if len(strings.TrimSpace(string(body))) == 0 {
		return []ValidationError{{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}}
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []ValidationError{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}
	}
	if result.Valid() {
		return nil
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		loc := []string{"body"}
		if field := e.Field(); field != "" && field != rootField {
			loc = append(loc, strings.Split(field, ".")...)
		}
		if e.Type() == "required" {
			if prop, ok := e.Details()["property"].(string); ok && loc[len(loc)-1] != prop {
				loc = append(loc, prop)
			}
		}
		errs = append(errs, ValidationError{Loc: loc, Msg: e.Description(), Type: e.Type()})
	}
	return errs
}
