package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
)

func TestParseCases(t *testing.T) {
	tbl := Table{
		Header: AutomationHeader,
		Rows: [][]string{
			{"TC-001", "post", "/tasks/", `{"title":"a"}`, "201", "task_id", ""},
			{},
			{"TC-002", "GET", "/tasks/{{task_id}}", "", "200|404", "", "title"},
		},
	}

	specs, err := ParseCases(tbl)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, 1, specs[0].Seq)
	assert.Equal(t, "POST", specs[0].Method)
	assert.Equal(t, testcase.BodyRaw, specs[0].Body.Kind)
	assert.Equal(t, "task_id", specs[0].SaveAs)

	assert.Equal(t, 3, specs[1].Seq)
	assert.Equal(t, []string{"200", "404"}, specs[1].Expect.Statuses)
	assert.Equal(t, "title", specs[1].Expect.Contains)
	assert.True(t, specs[1].Body.IsEmpty())
}

func TestParseCases_MissingColumns(t *testing.T) {
	_, err := ParseCases(Table{Header: []string{"テストケースID", "URL"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method")
	assert.Contains(t, err.Error(), "expectedStatus")
}

func TestParseLog_LegacyWithoutRunID(t *testing.T) {
	tbl := Table{
		Header: []string{ColExecutedAt, ColTestCaseID, ColVerdict},
		Rows:   [][]string{{"2024-01-01 00:00:00", "TC-1", "Pass"}},
	}

	records := ParseLog(tbl)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].RunID)
	assert.Equal(t, "TC-1", records[0].TestCaseID)
	assert.Equal(t, "Pass", records[0].Verdict)
	assert.Nil(t, records[0].Unresolved)
}

func TestLogTable_RoundTrip(t *testing.T) {
	records := []ledger.Record{{
		RunID:        "run-1",
		ExecutedAt:   "2024-01-01 10:00:00",
		Executor:     "Jun",
		TestCaseID:   "TC-1",
		ActualResult: `{"id":1}`,
		Verdict:      "Pass",
		EvidencePath: "results/01_TC-1.json",
		Unresolved:   []string{"task_id", "user_id"},
	}}

	tbl := LogTable(records)
	assert.Equal(t, LogHeader, tbl.Header)
	assert.Equal(t, "task_id, user_id", tbl.Rows[0][8])
	assert.Equal(t, records, ParseLog(tbl))
}

func TestLogTable_KeepsUserColumns(t *testing.T) {
	header := append(append([]string(nil), LogHeader...), "Reviewer", "", "Ticket")
	tbl := Table{
		Header: header,
		Rows: [][]string{
			{"run-1", "", "", "TC-1", "", "Fail", "", "", "", "aki", "x", "BUG-7"},
		},
	}

	records := ParseLog(tbl)
	require.Len(t, records, 1)
	assert.Equal(t, []ledger.Field{{Column: "Reviewer", Value: "aki"}, {Column: "Ticket", Value: "BUG-7"}}, records[0].Extra)

	fresh := ledger.Record{RunID: "run-2", TestCaseID: "TC-1", Verdict: "Pass"}
	out := LogTable(append(records, fresh))
	assert.Equal(t, append(append([]string(nil), LogHeader...), "Reviewer", "Ticket"), out.Header)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, []string{"aki", "BUG-7"}, out.Rows[0][len(LogHeader):])
	assert.Equal(t, []string{"", ""}, out.Rows[1][len(LogHeader):])
}

func TestReportTable_KeepsUserColumns(t *testing.T) {
	rows := ParseReport(Table{
		Header: []string{ColItem, ColValue, "Comment"},
		Rows:   [][]string{{"Pass率（今回RUN）", "50.0%", "flaky env"}},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, []ledger.Field{{Column: "Comment", Value: "flaky env"}}, rows[0].Extra)

	rows = report.Apply(rows, report.Summary{Executed: 2, Passed: 2}, nil)
	out := ReportTable(rows)
	assert.Equal(t, []string{ColItem, ColValue, "Comment"}, out.Header)
	assert.Equal(t, []string{"Pass率（今回RUN）", "100.0%", "flaky env"}, out.Rows[0])
	assert.Equal(t, []string{report.KeyExecuted, "2", ""}, out.Rows[1])
}

func TestParseReport(t *testing.T) {
	rows := ParseReport(Table{
		Header: ReportHeader,
		Rows:   [][]string{{"実行数（今回RUN）", "3"}, {"", ""}, {"メモ"}},
	})
	assert.Equal(t, report.Rows{{Key: "実行数（今回RUN）", Value: "3"}, {Key: "メモ", Value: ""}}, rows)

	headerless := ParseReport(Table{Header: []string{"a", "b"}, Rows: [][]string{{"k", "v"}}})
	assert.Equal(t, report.Rows{{Key: "k", Value: "v"}}, headerless)

	assert.Equal(t, ReportHeader, ReportTable(rows).Header)
}

func TestCountRows(t *testing.T) {
	assert.Equal(t, 2, CountRows(Table{Rows: [][]string{{"a"}, {" "}, {"b"}}}))
}
