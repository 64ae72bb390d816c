package env

import (
	"testing"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/stretchr/testify/assert"
)

func TestResolverResolve(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		variables map[string]any
		captures  map[string]any
		expected  string
	}{
		{
			name:     "no placeholders",
			input:    "/tasks/",
			expected: "/tasks/",
		},
		{
			name:     "captured id",
			input:    "/tasks/{{task_id}}",
			captures: map[string]any{"task_id": "7"},
			expected: "/tasks/7",
		},
		{
			name:     "numeric capture",
			input:    "/tasks/{{task_id}}",
			captures: map[string]any{"task_id": 7},
			expected: "/tasks/7",
		},
		{
			name:     "every occurrence",
			input:    `{"a": "{{x}}", "b": "{{x}}"}`,
			captures: map[string]any{"x": "y"},
			expected: `{"a": "y", "b": "y"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "/tasks/{{ task_id }}",
			captures: map[string]any{"task_id": "3"},
			expected: "/tasks/3",
		},
		{
			name:      "seed variable",
			input:     "/tasks/{{existing}}",
			variables: map[string]any{"existing": 999999},
			expected:  "/tasks/999999",
		},
		{
			name:      "capture shadows variable",
			input:     "{{id}}",
			variables: map[string]any{"id": "seed"},
			captures:  map[string]any{"id": "captured"},
			expected:  "captured",
		},
		{
			name:     "unresolved stays as-is",
			input:    "/tasks/{{task_id}}",
			expected: "/tasks/{{task_id}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.SetVariables(tt.variables)
			for k, v := range tt.captures {
				r.SetCapture(k, v)
			}

			assert.Equal(t, tt.expected, r.Resolve(tt.input))
		})
	}
}

func TestResolverResolve_Environment(t *testing.T) {
	t.Setenv("HITSHEET_TEST_TOKEN", "secret")

	r := NewResolver()
	assert.Equal(t, "Bearer secret", r.Resolve("Bearer {{$HITSHEET_TEST_TOKEN}}"))
	assert.Equal(t, "{{$HITSHEET_TEST_MISSING}}", r.Resolve("{{$HITSHEET_TEST_MISSING}}"))
}

func TestResolverResolve_Function(t *testing.T) {
	r := NewResolver()

	out := r.Resolve(`{"title": "task-{{randomString(6)}}"}`)
	assert.Len(t, out, len(`{"title": "task-"}`)+6)
	assert.Equal(t, "{{nope()}}", r.Resolve("{{nope()}}"))
}

func TestResolverResolve_Warns(t *testing.T) {
	var warnings []string
	r := NewResolver()
	r.SetWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, format)
	})

	r.Resolve("/tasks/{{task_id}}")
	assert.Len(t, warnings, 1)
}

func TestResolverUnresolved(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		captures map[string]any
		expected []string
	}{
		{name: "none", input: "/tasks/", expected: nil},
		{name: "resolved", input: "{{a}}", captures: map[string]any{"a": 1}, expected: nil},
		{name: "single", input: "{{a}}", expected: []string{"a"}},
		{name: "ordered and deduplicated", input: "{{b}}/{{a}}/{{b}}", expected: []string{"b", "a"}},
		{name: "mixed", input: "{{a}}/{{b}}", captures: map[string]any{"b": 2}, expected: []string{"a"}},
		{name: "known function", input: "{{uuid()}}", expected: nil},
		{name: "unknown function", input: "{{nope()}}", expected: []string{"nope()"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			for k, v := range tt.captures {
				r.SetCapture(k, v)
			}
			assert.Equal(t, tt.expected, r.Unresolved(tt.input))
		})
	}
}

func TestResolverResolveBody(t *testing.T) {
	r := NewResolver()
	r.SetCapture("task_id", "7")

	t.Run("raw", func(t *testing.T) {
		b := r.ResolveBody(testcase.RawBody(`{"parent": {{task_id}}}`))
		assert.Equal(t, testcase.BodyRaw, b.Kind)
		assert.Equal(t, `{"parent": 7}`, b.Text)
	})

	t.Run("json leaves", func(t *testing.T) {
		in := testcase.JSONBody(map[string]any{
			"title": "child of {{task_id}}",
			"tags":  []any{"{{task_id}}", 3},
			"done":  false,
		})
		b := r.ResolveBody(in)

		assert.Equal(t, map[string]any{
			"title": "child of 7",
			"tags":  []any{"7", 3},
			"done":  false,
		}, b.Value)
		// the template itself is untouched
		assert.Equal(t, "child of {{task_id}}", in.Value.(map[string]any)["title"])
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, r.ResolveBody(testcase.EmptyBody()).IsEmpty())
	})

	t.Run("unresolved in json", func(t *testing.T) {
		b := testcase.JSONBody(map[string]any{"a": "{{z}}", "b": []any{"{{y}}", "{{z}}"}})
		assert.Equal(t, []string{"y", "z"}, r.UnresolvedBody(b))
	})
}

func TestResolverCaptures(t *testing.T) {
	r := NewResolver()
	r.SetCapture("task_id", "1")

	snapshot := r.Captures()
	r.SetCapture("other", "2")

	assert.Len(t, snapshot, 1)
	assert.True(t, r.HasVariable("other"))
	assert.False(t, r.HasVariable("missing"))
}
