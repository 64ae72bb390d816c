package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
)

type fakeWorkbook struct {
	path   string
	sheets Sheets
}

func (f *fakeWorkbook) Path() string                        { return f.path }
func (f *fakeWorkbook) TestCases() ([]testcase.Spec, error) { return nil, nil }
func (f *fakeWorkbook) TotalCases() (int, bool, error)      { return 0, false, nil }
func (f *fakeWorkbook) ExecutionLog() ([]ledger.Record, error) {
	return nil, nil
}
func (f *fakeWorkbook) Report() (report.Rows, error)            { return nil, nil }
func (f *fakeWorkbook) Save([]ledger.Record, report.Rows) error { return nil }
func (f *fakeWorkbook) Close() error                            { return nil }

func init() {
	Register("fake",
		func(path string, sheets Sheets) (Workbook, error) {
			return &fakeWorkbook{path: path, sheets: sheets}, nil
		},
		func(path string, sheets Sheets) error {
			return os.WriteFile(path, []byte("fake"), 0o644)
		},
		".fake", ".FAKE2",
	)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.fake"), Sheets{})
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(path, Sheets{})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestOpen_SelectsBackendAndFillsSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.FAKE")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	wb, err := Open(path, Sheets{Report: "Summary"})
	require.NoError(t, err)
	defer wb.Close()

	fake := wb.(*fakeWorkbook)
	assert.Equal(t, path, fake.Path())
	assert.Equal(t, "Summary", fake.sheets.Report)
	assert.Equal(t, "06_Automation", fake.sheets.Automation)
	assert.Equal(t, "03_ExecutionLog", fake.sheets.ExecutionLog)
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.fake")
	require.NoError(t, Create(path, Sheets{}))

	err := Create(path, Sheets{})
	assert.Error(t, err)
}

func TestRegister_Duplicate(t *testing.T) {
	assert.Panics(t, func() {
		Register("dup", nil, nil, ".fake")
	})
	assert.Contains(t, Extensions(), ".fake")
	assert.Contains(t, Extensions(), ".fake2")
}
