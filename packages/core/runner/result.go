package runner

import (
	"time"

	"github.com/abdul-hamid-achik/hitsheet/packages/assertions"
	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/http"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
)

type RunResult struct {
	RunID     string
	Workbook  string
	BaseURL   string
	Executor  string
	StartedAt time.Time
	Duration  time.Duration
	Cases     []*CaseResult
	// Log is the merged execution log as written back to the pack.
	Log     []ledger.Record
	Report  report.Rows
	Summary report.Summary
	// TotalCases is nil when the pack has no test case catalogue.
	TotalCases *int
	Latency    LatencyStats
	DryRun     bool
}

func (r *RunResult) Passed() int {
	return r.Summary.Passed
}

func (r *RunResult) Failed() int {
	return r.Summary.Failed
}

// CaseResult is everything observed while executing one case.
type CaseResult struct {
	Spec  testcase.Spec
	State State
	// URL and Body are the request as sent, after placeholder resolution.
	URL        string
	Body       testcase.Body
	Unresolved []string
	Outcome    *http.Outcome
	Judgement  *assertions.Judgement
	// Captured holds the value bound to Spec.SaveAs, when one was.
	Captured     any
	SkipReason   string
	EvidencePath string
	EvidenceErr  error
	Record       ledger.Record
}

func (c *CaseResult) Passed() bool {
	return c.Judgement != nil && c.Judgement.Verdict.Passed()
}

func (c *CaseResult) Verdict() assertions.Verdict {
	if c.Judgement == nil {
		return ""
	}
	return c.Judgement.Verdict
}

func (c *CaseResult) Status() string {
	if c.Outcome == nil {
		return ""
	}
	return c.Outcome.Status
}

func (c *CaseResult) Duration() time.Duration {
	if c.Outcome == nil {
		return 0
	}
	return c.Outcome.Duration
}

// advance moves the case to the next state. Out-of-order transitions are
// programming errors.
func (c *CaseResult) advance(to State) {
	if !c.State.next(to) {
		panic("runner: invalid case transition " + c.State.String() + " -> " + to.String())
	}
	c.State = to
}
