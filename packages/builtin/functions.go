package builtin

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Func func(args []string) (any, error)

type Registry struct {
	funcs map[string]Func
	clock func() time.Time
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
		clock: time.Now,
	}
	r.funcs["uuid"] = func(_ []string) (any, error) { return uuid.New().String(), nil }
	r.funcs["now"] = func(_ []string) (any, error) { return r.clock().UTC().Format(time.RFC3339), nil }
	r.funcs["timestamp"] = func(_ []string) (any, error) { return r.clock().Unix(), nil }
	r.funcs["date"] = r.date
	r.funcs["random"] = funcRandom
	r.funcs["randomString"] = funcRandomString
	return r
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Names returns the registered function names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	return names
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Call evaluates an expression such as `random(1, 10)`. ok is false when expr
// is not a call of a registered function.
func (r *Registry) Call(expr string) (value any, ok bool, err error) {
	matches := funcCallPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if matches == nil {
		return nil, false, nil
	}

	fn, exists := r.funcs[matches[1]]
	if !exists {
		return nil, false, nil
	}

	var args []string
	if matches[2] != "" {
		args = parseArgs(matches[2])
	}

	value, err = fn(args)
	return value, true, err
}

func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	var quote byte

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote == 0 && (ch == '"' || ch == '\''):
			quote = ch
		case quote != 0 && ch == quote:
			quote = 0
		case quote == 0 && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, strings.TrimSpace(current.String()))
	}
	return args
}

func (r *Registry) date(args []string) (any, error) {
	layout := "2006-01-02"
	if len(args) >= 1 && args[0] != "" {
		layout = args[0]
	}
	return r.clock().UTC().Format(layout), nil
}

func funcRandom(args []string) (any, error) {
	lo, hi := 0, 100
	if len(args) >= 2 {
		var err error
		if lo, err = strconv.Atoi(args[0]); err != nil {
			return nil, &ArgError{Func: "random", Arg: args[0]}
		}
		if hi, err = strconv.Atoi(args[1]); err != nil {
			return nil, &ArgError{Func: "random", Arg: args[1]}
		}
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return rand.Intn(hi-lo+1) + lo, nil
}

func funcRandomString(args []string) (any, error) {
	length := 16
	if len(args) >= 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return nil, &ArgError{Func: "randomString", Arg: args[0]}
		}
		length = v
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumeric[rand.Intn(len(alphanumeric))]
	}
	return string(b), nil
}

// ArgError reports an argument a function could not parse.
type ArgError struct {
	Func string
	Arg  string
}

func (e *ArgError) Error() string {
	return e.Func + "(): invalid argument " + strconv.Quote(e.Arg)
}
