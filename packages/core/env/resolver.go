package env

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/hitsheet/packages/builtin"
	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver is the variable store of one run. Seed variables come from
// configuration; captures are bound by saveAs steps and only ever grow.
// A Resolver is owned by a single run and is not safe for concurrent use.
type Resolver struct {
	variables map[string]any
	captures  map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return NewResolverWithFunctions(builtin.NewRegistry())
}

// NewResolverWithFunctions uses reg for {{fn()}} placeholders.
func NewResolverWithFunctions(reg *builtin.Registry) *Resolver {
	if reg == nil {
		reg = builtin.NewRegistry()
	}
	return &Resolver{
		variables: make(map[string]any),
		captures:  make(map[string]any),
		funcs:     reg,
	}
}

// SetWarnFunc sets a function to be called for unresolved placeholders.
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.variables[name] = value
}

// SetCapture binds a value captured from a response.
func (r *Resolver) SetCapture(name string, value any) {
	r.captures[name] = value
}

// Captures returns a copy of every captured value.
func (r *Resolver) Captures() map[string]any {
	out := make(map[string]any, len(r.captures))
	for k, v := range r.captures {
		out[k] = v
	}
	return out
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	if v, ok := r.captures[name]; ok {
		return v, true
	}
	if v, ok := r.variables[name]; ok {
		return v, true
	}
	return nil, false
}

func (r *Resolver) HasVariable(name string) bool {
	_, ok := r.GetVariable(name)
	return ok
}

// Resolve replaces every resolvable placeholder in input. Unresolvable
// placeholders are kept verbatim.
func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := r.lookup(expr); ok {
			return val
		}
		r.warn("unresolved placeholder: %s", expr)
		return match
	})
}

// Unresolved lists the placeholders in input that Resolve would leave as-is,
// in order of first appearance.
func (r *Resolver) Unresolved(input string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if seen[expr] {
			continue
		}
		if _, ok := r.peek(expr); !ok {
			seen[expr] = true
			out = append(out, expr)
		}
	}
	return out
}

// peek checks resolvability without evaluating functions.
func (r *Resolver) peek(expr string) (string, bool) {
	if strings.Contains(expr, "(") {
		for _, name := range r.funcs.Names() {
			if strings.HasPrefix(expr, name+"(") && strings.HasSuffix(expr, ")") {
				return "", true
			}
		}
		return "", false
	}
	return r.lookup(expr)
}

func (r *Resolver) lookup(expr string) (string, bool) {
	if strings.HasPrefix(expr, "$") {
		if val, ok := os.LookupEnv(expr[1:]); ok {
			return val, true
		}
		return "", false
	}

	if strings.Contains(expr, "(") {
		result, ok, err := r.funcs.Call(expr)
		if !ok || err != nil {
			if err != nil {
				r.warn("function %s failed: %v", expr, err)
			}
			return "", false
		}
		return stringify(result), true
	}

	if val, ok := r.GetVariable(expr); ok {
		return stringify(val), true
	}
	return "", false
}

// ResolveBody resolves a body template. Raw text is resolved as a whole;
// string leaves of JSON values are resolved individually.
func (r *Resolver) ResolveBody(b testcase.Body) testcase.Body {
	switch b.Kind {
	case testcase.BodyRaw:
		return testcase.RawBody(r.Resolve(b.Text))
	case testcase.BodyJSON:
		return testcase.JSONBody(r.resolveValue(b.Value))
	default:
		return b
	}
}

// UnresolvedBody is Unresolved applied to a body template.
func (r *Resolver) UnresolvedBody(b testcase.Body) []string {
	switch b.Kind {
	case testcase.BodyRaw:
		return r.Unresolved(b.Text)
	case testcase.BodyJSON:
		var out []string
		walkStrings(b.Value, func(s string) {
			out = append(out, r.Unresolved(s)...)
		})
		out = dedupe(out)
		sort.Strings(out)
		return out
	default:
		return nil
	}
}

func (r *Resolver) resolveValue(v any) any {
	switch val := v.(type) {
	case string:
		return r.Resolve(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = r.resolveValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.resolveValue(item)
		}
		return out
	default:
		return v
	}
}

func walkStrings(v any, fn func(string)) {
	switch val := v.(type) {
	case string:
		fn(val)
	case map[string]any:
		for _, item := range val {
			walkStrings(item, fn)
		}
	case []any:
		for _, item := range val {
			walkStrings(item, fn)
		}
	}
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
