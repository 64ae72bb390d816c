// Package sqlite is the SQLite backend of store. Importing it registers the
// .db, .sqlite and .sqlite3 extensions.
//
// Tables are named after the sheet names, except that the default sheet names
// map to automation, test_cases, execution_log and report.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

const queryTimeout = 30 * time.Second

func init() {
	store.Register("sqlite", Open, Create, ".db", ".sqlite", ".sqlite3")
}

type tables struct {
	automation, testCases, log, report string
}

func tableNames(s store.Sheets) tables {
	s = s.WithDefaults()
	d := store.DefaultSheets()
	pick := func(name, def, fallback string) string {
		if name == def {
			return fallback
		}
		return name
	}
	return tables{
		automation: pick(s.Automation, d.Automation, "automation"),
		testCases:  pick(s.TestCases, d.TestCases, "test_cases"),
		log:        pick(s.ExecutionLog, d.ExecutionLog, "execution_log"),
		report:     pick(s.Report, d.Report, "report"),
	}
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

type Workbook struct {
	path   string
	db     *sql.DB
	tables tables
}

func connect(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Open opens an existing pack database. The automation table must exist.
func Open(path string, sheets store.Sheets) (store.Workbook, error) {
	db, err := connect(path)
	if err != nil {
		return nil, err
	}
	wb := &Workbook{path: path, db: db, tables: tableNames(sheets)}

	ok, err := wb.hasTable(wb.tables.automation)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if !ok {
		_ = db.Close()
		return nil, fmt.Errorf("%w: table %q in %s", store.ErrTableNotFound, wb.tables.automation, path)
	}
	return wb, nil
}

func (w *Workbook) Path() string {
	return w.path
}

func (w *Workbook) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

func (w *Workbook) hasTable(name string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var n int
	err := w.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return n > 0, nil
}

// readTable returns every row of name, in insertion order, as text.
func (w *Workbook) readTable(name string) (store.Table, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := w.db.QueryContext(ctx, "SELECT * FROM "+quote(name)+" ORDER BY rowid")
	if err != nil {
		return store.Table{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return store.Table{}, fmt.Errorf("failed to get columns: %w", err)
	}

	t := store.Table{Header: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return store.Table{}, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = text(v)
		}
		t.Rows = append(t.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return store.Table{}, fmt.Errorf("row iteration error: %w", err)
	}
	return t, nil
}

func text(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(ledger.TimeLayout)
	default:
		return fmt.Sprint(val)
	}
}

func (w *Workbook) TestCases() ([]testcase.Spec, error) {
	t, err := w.readTable(w.tables.automation)
	if err != nil {
		return nil, err
	}
	specs, err := store.ParseCases(t)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", w.tables.automation, err)
	}
	return specs, nil
}

func (w *Workbook) AutomationHeader() ([]string, error) {
	t, err := w.readTable(w.tables.automation)
	if err != nil {
		return nil, err
	}
	return t.Header, nil
}

func (w *Workbook) TotalCases() (int, bool, error) {
	ok, err := w.hasTable(w.tables.testCases)
	if err != nil || !ok {
		return 0, false, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var n int
	if err := w.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quote(w.tables.testCases)).Scan(&n); err != nil {
		return 0, false, fmt.Errorf("query failed: %w", err)
	}
	return n, true, nil
}

func (w *Workbook) ExecutionLog() ([]ledger.Record, error) {
	ok, err := w.hasTable(w.tables.log)
	if err != nil || !ok {
		return nil, err
	}
	t, err := w.readTable(w.tables.log)
	if err != nil {
		return nil, err
	}
	return store.ParseLog(t), nil
}

func (w *Workbook) Report() (report.Rows, error) {
	ok, err := w.hasTable(w.tables.report)
	if err != nil || !ok {
		return nil, err
	}
	t, err := w.readTable(w.tables.report)
	if err != nil {
		return nil, err
	}
	return store.ParseReport(t), nil
}

// Save replaces the contents of the execution log and report tables in one
// transaction.
func (w *Workbook) Save(log []ledger.Record, rows report.Rows) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceTable(ctx, tx, w.tables.log, store.LogTable(log)); err != nil {
		return err
	}
	if err := replaceTable(ctx, tx, w.tables.report, store.ReportTable(rows)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func replaceTable(ctx context.Context, tx *sql.Tx, name string, t store.Table) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(name)); err != nil {
		return fmt.Errorf("failed to drop %q: %w", name, err)
	}
	if err := createTable(ctx, tx, name, t.Header); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Header)), ", ")
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+quote(name)+" VALUES ("+placeholders+")")
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %q: %w", name, err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]interface{}, len(t.Header))
		for i := range args {
			if i < len(row) {
				args[i] = row[i]
			} else {
				args[i] = ""
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert into %q: %w", name, err)
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func createTable(ctx context.Context, db execer, name string, header []string) error {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = quote(h) + " TEXT"
	}
	query := "CREATE TABLE IF NOT EXISTS " + quote(name) + " (" + strings.Join(cols, ", ") + ")"
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %q: %w", name, err)
	}
	return nil
}

// Create writes a new pack database with all four tables.
func Create(path string, sheets store.Sheets) error {
	db, err := connect(path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	t := tableNames(sheets)
	for _, spec := range []struct {
		name   string
		header []string
	}{
		{t.automation, store.AutomationHeader},
		{t.testCases, store.TestCasesHeader},
		{t.log, store.LogHeader},
		{t.report, store.ReportHeader},
	} {
		if err := createTable(ctx, db, spec.name, spec.header); err != nil {
			return err
		}
	}
	return nil
}
