package ledger

import "time"

// TimeLayout is how ExecutedAt is rendered in a sheet.
const TimeLayout = "2006-01-02 15:04:05"

type Record struct {
	RunID        string
	ExecutedAt   string
	Executor     string
	TestCaseID   string
	ActualResult string
	Verdict      string
	EvidencePath string
	Note         string
	// Unresolved lists placeholders that were left literal in the request.
	Unresolved []string
	// Extra holds cells of user columns the log sheet carries beyond the
	// standard ones, in sheet order.
	Extra []Field
}

// Field is one named cell outside the standard columns.
type Field struct {
	Column string
	Value  string
}

type key struct {
	runID, caseID string
}

func (r Record) key() key {
	return key{runID: r.RunID, caseID: r.TestCaseID}
}

// Timestamp formats t with TimeLayout.
func Timestamp(t time.Time) string {
	return t.Format(TimeLayout)
}

// Merge appends fresh to existing and drops every record that a later record
// with the same (RunID, TestCaseID) supersedes. Surviving records keep the
// relative order of the concatenation.
func Merge(existing, fresh []Record) []Record {
	all := make([]Record, 0, len(existing)+len(fresh))
	all = append(all, existing...)
	all = append(all, fresh...)

	last := make(map[key]int, len(all))
	for i, r := range all {
		last[r.key()] = i
	}

	out := make([]Record, 0, len(last))
	for i, r := range all {
		if last[r.key()] == i {
			out = append(out, r)
		}
	}
	return out
}

// ForRun returns the records belonging to runID.
func ForRun(records []Record, runID string) []Record {
	var out []Record
	for _, r := range records {
		if r.RunID == runID {
			out = append(out, r)
		}
	}
	return out
}

// Count tallies the verdicts of records.
func Count(records []Record) (executed, passed, failed int) {
	for _, r := range records {
		executed++
		switch r.Verdict {
		case "Pass":
			passed++
		case "Fail":
			failed++
		}
	}
	return executed, passed, failed
}
