package store

import (
	"strings"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
)

// Table is a header row followed by data rows, all cells as text.
type Table struct {
	Header []string
	Rows   [][]string
}

// Execution log headers, in sheet order.
const (
	ColRunID        = "RUN_ID"
	ColExecutedAt   = "実行日"
	ColExecutor     = "実行者"
	ColTestCaseID   = "テストケースID"
	ColActualResult = "実際の結果"
	ColVerdict      = "ステータス（Pass/Fail）"
	ColEvidence     = "証跡（スクショ/ログのパス）"
	ColNote         = "備考"
	ColUnresolved   = "Unresolved"
)

var LogHeader = []string{
	ColRunID, ColExecutedAt, ColExecutor, ColTestCaseID,
	ColActualResult, ColVerdict, ColEvidence, ColNote, ColUnresolved,
}

// Report headers.
const (
	ColItem  = "項目"
	ColValue = "値"
)

var ReportHeader = []string{ColItem, ColValue}

// AutomationHeader is written by Create for a new automation table.
var AutomationHeader = []string{
	"テストケースID", "メソッド", "URL", "ボディ(JSON)", "期待ステータス",
	"save_as（任意）", "expect_contains（任意）",
}

// TestCasesHeader is written by Create for a new test case catalogue.
var TestCasesHeader = []string{"テストケースID", "機能", "テスト内容", "期待結果"}

const unresolvedSep = ", "

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// ParseCases detects the automation columns of t and builds one Spec per
// non-blank row. Seq is the 1-based data row position, blank rows included,
// so evidence names line up with sheet rows.
func ParseCases(t Table) ([]testcase.Spec, error) {
	cols, err := testcase.DetectColumns(t.Header)
	if err != nil {
		return nil, err
	}
	specs := make([]testcase.Spec, 0, len(t.Rows))
	for i, row := range t.Rows {
		if testcase.IsBlankRow(row) {
			continue
		}
		specs = append(specs, testcase.FromRow(cols, row, i+1))
	}
	return specs, nil
}

// CountRows returns the number of non-blank data rows.
func CountRows(t Table) int {
	n := 0
	for _, row := range t.Rows {
		if !testcase.IsBlankRow(row) {
			n++
		}
	}
	return n
}

// ParseLog reads execution records by header name. Columns that are absent,
// such as RUN_ID in logs written before run ids existed, read as "". Any
// other named column is kept in Record.Extra.
func ParseLog(t Table) []ledger.Record {
	idx := make(map[string]int, len(LogHeader))
	for _, name := range LogHeader {
		idx[name] = indexOf(t.Header, name)
	}
	extra := extraColumns(t.Header, LogHeader)

	records := make([]ledger.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		if testcase.IsBlankRow(row) {
			continue
		}
		get := func(name string) string { return cell(row, idx[name]) }
		records = append(records, ledger.Record{
			RunID:        get(ColRunID),
			ExecutedAt:   get(ColExecutedAt),
			Executor:     get(ColExecutor),
			TestCaseID:   get(ColTestCaseID),
			ActualResult: get(ColActualResult),
			Verdict:      get(ColVerdict),
			EvidencePath: get(ColEvidence),
			Note:         get(ColNote),
			Unresolved:   SplitUnresolved(get(ColUnresolved)),
			Extra:        extraFields(extra, row),
		})
	}
	return records
}

// LogTable renders records under LogHeader followed by the extra columns
// found on any record. Records without a value for a column get "".
func LogTable(records []ledger.Record) Table {
	extras := make([][]ledger.Field, len(records))
	for i, r := range records {
		extras[i] = r.Extra
	}
	cols := extraHeader(extras)

	t := Table{Header: append(append([]string(nil), LogHeader...), cols...)}
	for _, r := range records {
		row := []string{
			r.RunID, r.ExecutedAt, r.Executor, r.TestCaseID,
			r.ActualResult, r.Verdict, r.EvidencePath, r.Note,
			JoinUnresolved(r.Unresolved),
		}
		t.Rows = append(t.Rows, append(row, extraCells(cols, r.Extra)...))
	}
	return t
}

// ParseReport reads key/value rows. Without the usual headers the first two
// columns are used. Other named columns are kept in Row.Extra.
func ParseReport(t Table) report.Rows {
	k, v := indexOf(t.Header, ColItem), indexOf(t.Header, ColValue)
	if k < 0 {
		k = 0
	}
	if v < 0 {
		v = 1
	}
	used := []string{ColItem, ColValue, cell(t.Header, k), cell(t.Header, v)}
	extra := extraColumns(t.Header, used)

	var rows report.Rows
	for _, row := range t.Rows {
		if testcase.IsBlankRow(row) {
			continue
		}
		rows = append(rows, report.Row{Key: cell(row, k), Value: cell(row, v), Extra: extraFields(extra, row)})
	}
	return rows
}

// ReportTable renders rows under ReportHeader followed by any extra columns.
func ReportTable(rows report.Rows) Table {
	extras := make([][]ledger.Field, len(rows))
	for i, r := range rows {
		extras[i] = r.Extra
	}
	cols := extraHeader(extras)

	t := Table{Header: append(append([]string(nil), ReportHeader...), cols...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, append([]string{r.Key, r.Value}, extraCells(cols, r.Extra)...))
	}
	return t
}

type column struct {
	name string
	idx  int
}

// extraColumns lists the named header cells that are not in known. Unnamed
// and repeated columns are dropped.
func extraColumns(header, known []string) []column {
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[strings.TrimSpace(k)] = true
	}
	var out []column
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, column{name: h, idx: i})
	}
	return out
}

func extraFields(cols []column, row []string) []ledger.Field {
	if len(cols) == 0 {
		return nil
	}
	out := make([]ledger.Field, len(cols))
	for i, c := range cols {
		out[i] = ledger.Field{Column: c.name, Value: cell(row, c.idx)}
	}
	return out
}

// extraHeader returns the extra column names in order of first appearance.
func extraHeader(extras [][]ledger.Field) []string {
	var cols []string
	seen := map[string]bool{}
	for _, fields := range extras {
		for _, f := range fields {
			if !seen[f.Column] {
				seen[f.Column] = true
				cols = append(cols, f.Column)
			}
		}
	}
	return cols
}

func extraCells(cols []string, fields []ledger.Field) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		for _, f := range fields {
			if f.Column == c {
				out[i] = f.Value
				break
			}
		}
	}
	return out
}

func JoinUnresolved(names []string) string {
	return strings.Join(names, unresolvedSep)
}

func SplitUnresolved(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
