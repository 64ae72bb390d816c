package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

func seed(t *testing.T, path string, stmts ...string) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
}

func TestWorkbook_EnglishSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.db")
	seed(t, path,
		`CREATE TABLE automation (test_case_id TEXT, method TEXT, url TEXT, body TEXT, expected_status INTEGER, save_as TEXT, expect_contains TEXT)`,
		`INSERT INTO automation VALUES ('TC-001', 'POST', '/tasks/', '{"title":"x"}', 201, 'task_id', NULL)`,
		`INSERT INTO automation VALUES ('TC-002', 'GET', '/tasks/{{task_id}}', NULL, 200, NULL, 'title')`,
		`CREATE TABLE test_cases (id TEXT)`,
		`INSERT INTO test_cases VALUES ('a'), ('b'), ('c'), ('d')`,
	)

	wb, err := store.Open(path, store.Sheets{})
	require.NoError(t, err)
	defer wb.Close()

	specs, err := wb.TestCases()
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "TC-001", specs[0].ID)
	assert.Equal(t, []string{"201"}, specs[0].Expect.Statuses)
	assert.Equal(t, "task_id", specs[0].SaveAs)
	assert.True(t, specs[1].Body.IsEmpty())
	assert.Equal(t, "title", specs[1].Expect.Contains)

	total, ok, err := wb.TotalCases()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, total)

	log, err := wb.ExecutionLog()
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestWorkbook_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.sqlite")
	require.NoError(t, store.Create(path, store.Sheets{}))

	wb, err := store.Open(path, store.Sheets{})
	require.NoError(t, err)

	log := []ledger.Record{
		{RunID: "r1", ExecutedAt: "2024-01-01 00:00:00", Executor: "Jun", TestCaseID: "TC-1", Verdict: "Pass"},
		{RunID: "r1", TestCaseID: "TC-2", Verdict: "Fail", Unresolved: []string{"task_id"}},
	}
	rows := report.Rows{{Key: report.KeyExecuted, Value: "2"}, {Key: report.KeyPassRate, Value: "50.0%"}}
	require.NoError(t, wb.Save(log, rows))
	require.NoError(t, wb.Close())

	wb, err = store.Open(path, store.Sheets{})
	require.NoError(t, err)
	defer wb.Close()

	gotLog, err := wb.ExecutionLog()
	require.NoError(t, err)
	assert.Equal(t, log, gotLog)

	gotRows, err := wb.Report()
	require.NoError(t, err)
	assert.Equal(t, rows, gotRows)

	_, ok, err := wb.TotalCases()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_MissingAutomationTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	seed(t, path, `CREATE TABLE other (x TEXT)`)

	_, err := store.Open(path, store.Sheets{})
	assert.True(t, errors.Is(err, store.ErrTableNotFound))
}

func TestTableNames(t *testing.T) {
	got := tableNames(store.Sheets{Report: "Summary"})
	assert.Equal(t, "automation", got.automation)
	assert.Equal(t, "Summary", got.report)
	assert.Equal(t, `"a""b"`, quote(`a"b`))
}
