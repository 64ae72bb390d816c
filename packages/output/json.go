package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string       `json:"runId"`
	Workbook string       `json:"workbook"`
	BaseURL  string       `json:"baseUrl"`
	Executor string       `json:"executor"`
	DryRun   bool         `json:"dryRun,omitempty"`
	Summary  JSONSummary  `json:"summary"`
	Latency  *JSONLatency `json:"latency,omitempty"`
	Tests    []JSONTest   `json:"tests"`
	Duration float64      `json:"duration"`
	Time     string       `json:"time"`
}

// JSONSummary mirrors the report rows written back to the workbook
type JSONSummary struct {
	TotalCases *int   `json:"totalCases,omitempty"`
	Executed   int    `json:"executed"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	PassRate   string `json:"passRate"`
}

// JSONLatency holds dispatch latency percentiles in milliseconds
type JSONLatency struct {
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	P99  float64 `json:"p99"`
	Max  float64 `json:"max"`
}

// JSONTest represents a single case result
type JSONTest struct {
	Seq        int             `json:"seq"`
	ID         string          `json:"id"`
	Method     string          `json:"method"`
	URL        string          `json:"url"`
	Body       string          `json:"body,omitempty"`
	Expected   string          `json:"expected"`
	Status     string          `json:"status,omitempty"`
	Verdict    string          `json:"verdict,omitempty"`
	Duration   float64         `json:"duration"`
	Response   string          `json:"response,omitempty"`
	Evidence   string          `json:"evidence,omitempty"`
	SaveAs     string          `json:"saveAs,omitempty"`
	Captured   any             `json:"captured,omitempty"`
	SkipReason string          `json:"skipReason,omitempty"`
	Unresolved []string        `json:"unresolved,omitempty"`
	Assertions []JSONAssertion `json:"assertions,omitempty"`
}

// JSONAssertion represents an assertion result
type JSONAssertion struct {
	Subject  string `json:"subject"`
	Operator string `json:"operator"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message,omitempty"`
}

// JSONFormatter formats run results as JSON
type JSONFormatter struct {
	writer io.Writer
	output JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		output: JSONOutput{Tests: make([]JSONTest, 0)},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	f.output.RunID = result.RunID
	f.output.Workbook = result.Workbook
	f.output.BaseURL = result.BaseURL
	f.output.Executor = result.Executor
	f.output.DryRun = result.DryRun
	f.output.Summary = JSONSummary{
		TotalCases: result.TotalCases,
		Executed:   result.Summary.Executed,
		Passed:     result.Summary.Passed,
		Failed:     result.Summary.Failed,
		PassRate:   result.Summary.PassRate(),
	}
	if l := result.Latency; l.Count > 0 {
		ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
		f.output.Latency = &JSONLatency{
			Min: ms(l.Min), Mean: ms(l.Mean), P50: ms(l.P50), P90: ms(l.P90), P99: ms(l.P99), Max: ms(l.Max),
		}
	}

	for _, c := range result.Cases {
		test := JSONTest{
			Seq:        c.Spec.Seq,
			ID:         c.Spec.ID,
			Method:     c.Spec.Method,
			URL:        c.URL,
			Body:       c.Body.String(),
			Expected:   c.Spec.Expect.String(),
			Status:     c.Status(),
			Verdict:    string(c.Verdict()),
			Duration:   float64(c.Duration().Milliseconds()),
			Evidence:   c.EvidencePath,
			SaveAs:     c.Spec.SaveAs,
			Captured:   c.Captured,
			Unresolved: c.Unresolved,
		}
		if c.Outcome != nil {
			test.Response = c.Outcome.Text
		}
		if c.Spec.SaveAs != "" {
			test.SkipReason = c.SkipReason
		}
		if c.Judgement != nil {
			for _, a := range c.Judgement.Checks {
				test.Assertions = append(test.Assertions, JSONAssertion{
					Subject:  a.Subject,
					Operator: a.Operator,
					Expected: a.Expected,
					Actual:   a.Actual,
					Passed:   a.Passed,
					Message:  a.Message,
				})
			}
		}
		f.output.Tests = append(f.output.Tests, test)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are reported on stderr by the CLI
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	f.output.Duration = float64(totalDuration.Milliseconds())
	f.output.Time = time.Now().Format(time.RFC3339)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.output)
}
