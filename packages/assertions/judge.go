package assertions

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
)

type Verdict string

const (
	Pass Verdict = "Pass"
	Fail Verdict = "Fail"
)

func (v Verdict) Passed() bool {
	return v == Pass
}

type Result struct {
	Passed   bool
	Message  string
	Expected any
	Actual   any
	Subject  string
	Operator string
}

type Judgement struct {
	Verdict Verdict
	Checks  []*Result
}

// Failed returns the checks that did not pass.
func (j *Judgement) Failed() []*Result {
	var out []*Result
	for _, c := range j.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// Judge evaluates the observed status and response text against expect.
// The status sentinel "ERR" never matches a numeric expectation.
func Judge(status, text string, expect testcase.Expectations) *Judgement {
	checks := []*Result{checkStatus(status, expect)}
	if expect.Contains != "" {
		checks = append(checks, checkContains(text, expect.Contains))
	}

	verdict := Pass
	for _, c := range checks {
		if !c.Passed {
			verdict = Fail
			break
		}
	}
	return &Judgement{Verdict: verdict, Checks: checks}
}

func checkStatus(status string, expect testcase.Expectations) *Result {
	r := &Result{
		Subject:  "status",
		Operator: "in",
		Expected: expect.StatusSet(),
		Actual:   status,
		Passed:   expect.HasStatus(status),
	}
	if !r.Passed {
		r.Message = fmt.Sprintf("expected status %s, got %s", strings.Join(expect.StatusSet(), "|"), status)
	}
	return r
}

func checkContains(text, needle string) *Result {
	r := &Result{
		Subject:  "body",
		Operator: "contains",
		Expected: needle,
		Actual:   text,
		Passed:   strings.Contains(text, needle),
	}
	if !r.Passed {
		r.Message = fmt.Sprintf("expected body to contain %q", needle)
	}
	return r
}
