package report

import (
	"fmt"
	"strconv"

	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
)

// Metric keys, as they appear in the item column of the report sheet.
const (
	KeyTotalCases = "総テストケース数"
	KeyExecuted   = "実行数（今回RUN）"
	KeyPassed     = "Pass数（今回RUN）"
	KeyFailed     = "Fail数（今回RUN）"
	KeyPassRate   = "Pass率（今回RUN）"
)

type Summary struct {
	Executed int
	Passed   int
	Failed   int
}

// Summarize counts the records of runID in log.
func Summarize(log []ledger.Record, runID string) Summary {
	executed, passed, failed := ledger.Count(ledger.ForRun(log, runID))
	return Summary{Executed: executed, Passed: passed, Failed: failed}
}

// PassRate renders passed/executed as a percentage with one decimal, or an
// empty string when nothing was executed.
func (s Summary) PassRate() string {
	if s.Executed == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f%%", float64(s.Passed)/float64(s.Executed)*100)
}

type Row struct {
	Key   string
	Value string
	// Extra carries user columns beside the item and value columns.
	Extra []ledger.Field
}

type Rows []Row

// Upsert sets value on every row whose key matches, or appends a new row.
func (r *Rows) Upsert(key, value string) {
	found := false
	for i := range *r {
		if (*r)[i].Key == key {
			(*r)[i].Value = value
			found = true
		}
	}
	if !found {
		*r = append(*r, Row{Key: key, Value: value})
	}
}

// Get returns the value of the first row with key.
func (r Rows) Get(key string) (string, bool) {
	for _, row := range r {
		if row.Key == key {
			return row.Value, true
		}
	}
	return "", false
}

// Apply writes the run metrics into rows. The total case count is only
// written when total is known.
func Apply(rows Rows, s Summary, total *int) Rows {
	out := append(Rows(nil), rows...)
	if total != nil {
		out.Upsert(KeyTotalCases, strconv.Itoa(*total))
	}
	out.Upsert(KeyExecuted, strconv.Itoa(s.Executed))
	out.Upsert(KeyPassed, strconv.Itoa(s.Passed))
	out.Upsert(KeyFailed, strconv.Itoa(s.Failed))
	out.Upsert(KeyPassRate, s.PassRate())
	return out
}
