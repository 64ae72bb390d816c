// Package xlsx is the Excel backend of store. Importing it registers the
// .xlsx and .xlsm extensions.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

func init() {
	store.Register("xlsx", Open, Create, ".xlsx", ".xlsm")
}

type Workbook struct {
	path   string
	sheets store.Sheets
	file   *excelize.File
}

// Open opens an existing workbook. The automation sheet must be present.
func Open(path string, sheets store.Sheets) (store.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	wb := &Workbook{path: path, sheets: sheets.WithDefaults(), file: f}
	if !wb.hasSheet(wb.sheets.Automation) {
		_ = f.Close()
		return nil, fmt.Errorf("%w: sheet %q in %s", store.ErrTableNotFound, wb.sheets.Automation, path)
	}
	return wb, nil
}

func (w *Workbook) Path() string {
	return w.path
}

func (w *Workbook) hasSheet(name string) bool {
	for _, s := range w.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

func (w *Workbook) readTable(sheet string) (store.Table, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return store.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return store.Table{}, nil
	}
	return store.Table{Header: rows[0], Rows: rows[1:]}, nil
}

func (w *Workbook) TestCases() ([]testcase.Spec, error) {
	t, err := w.readTable(w.sheets.Automation)
	if err != nil {
		return nil, err
	}
	specs, err := store.ParseCases(t)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", w.sheets.Automation, err)
	}
	return specs, nil
}

func (w *Workbook) AutomationHeader() ([]string, error) {
	t, err := w.readTable(w.sheets.Automation)
	if err != nil {
		return nil, err
	}
	return t.Header, nil
}

// MaxCellChars is the longest text excelize keeps in one cell.
func (w *Workbook) MaxCellChars() int {
	return excelize.TotalCellChars
}

func (w *Workbook) TotalCases() (int, bool, error) {
	if !w.hasSheet(w.sheets.TestCases) {
		return 0, false, nil
	}
	t, err := w.readTable(w.sheets.TestCases)
	if err != nil {
		return 0, false, err
	}
	return store.CountRows(t), true, nil
}

func (w *Workbook) ExecutionLog() ([]ledger.Record, error) {
	if !w.hasSheet(w.sheets.ExecutionLog) {
		return nil, nil
	}
	t, err := w.readTable(w.sheets.ExecutionLog)
	if err != nil {
		return nil, err
	}
	return store.ParseLog(t), nil
}

func (w *Workbook) Report() (report.Rows, error) {
	if !w.hasSheet(w.sheets.Report) {
		return nil, nil
	}
	t, err := w.readTable(w.sheets.Report)
	if err != nil {
		return nil, err
	}
	return store.ParseReport(t), nil
}

// Save replaces the execution log and report sheets and writes the file.
// Every other sheet is left untouched.
func (w *Workbook) Save(log []ledger.Record, rows report.Rows) error {
	if err := w.replaceSheet(w.sheets.ExecutionLog, store.LogTable(log)); err != nil {
		return err
	}
	if err := w.replaceSheet(w.sheets.Report, store.ReportTable(rows)); err != nil {
		return err
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// replaceSheet clears sheet, creating it if needed, and writes t into it.
func (w *Workbook) replaceSheet(sheet string, t store.Table) error {
	if w.hasSheet(sheet) {
		rows, err := w.file.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		for i := len(rows); i >= 1; i-- {
			if err := w.file.RemoveRow(sheet, i); err != nil {
				return fmt.Errorf("failed to clear sheet %q: %w", sheet, err)
			}
		}
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	return writeTable(w.file, sheet, t)
}

func writeTable(f *excelize.File, sheet string, t store.Table) error {
	if err := writeRow(f, sheet, 1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write sheet %q row %d: %w", sheet, rowNum, err)
	}
	return nil
}

// Create writes a new workbook with the automation, test case, execution log
// and report sheets, each holding only its header row.
func Create(path string, sheets store.Sheets) error {
	sheets = sheets.WithDefaults()
	f := excelize.NewFile()
	defer f.Close()

	layout := []struct {
		name   string
		header []string
	}{
		{sheets.TestCases, store.TestCasesHeader},
		{sheets.ExecutionLog, store.LogHeader},
		{sheets.Report, store.ReportHeader},
		{sheets.Automation, store.AutomationHeader},
	}

	for i, s := range layout {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", s.name, err)
		}
		if err := writeRow(f, s.name, 1, s.header); err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, "A", "I", 20); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
