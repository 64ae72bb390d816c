package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
)

var (
	// ErrSourceNotFound is returned when the pack file does not exist.
	ErrSourceNotFound = errors.New("test pack not found")
	// ErrTableNotFound is returned when the automation table is missing.
	ErrTableNotFound = errors.New("automation table not found")
	// ErrUnsupportedFormat is returned when no backend handles the extension.
	ErrUnsupportedFormat = errors.New("unsupported test pack format")
)

// Sheets names the tables of a pack.
type Sheets struct {
	Automation   string `json:"automation,omitempty" yaml:"automation,omitempty"`
	ExecutionLog string `json:"executionLog,omitempty" yaml:"executionLog,omitempty"`
	Report       string `json:"report,omitempty" yaml:"report,omitempty"`
	TestCases    string `json:"testCases,omitempty" yaml:"testCases,omitempty"`
}

func DefaultSheets() Sheets {
	return Sheets{
		Automation:   "06_Automation",
		ExecutionLog: "03_ExecutionLog",
		Report:       "05_Report",
		TestCases:    "02_TestCases",
	}
}

// WithDefaults fills empty names from DefaultSheets.
func (s Sheets) WithDefaults() Sheets {
	d := DefaultSheets()
	if s.Automation == "" {
		s.Automation = d.Automation
	}
	if s.ExecutionLog == "" {
		s.ExecutionLog = d.ExecutionLog
	}
	if s.Report == "" {
		s.Report = d.Report
	}
	if s.TestCases == "" {
		s.TestCases = d.TestCases
	}
	return s
}

// Workbook is an opened test pack.
type Workbook interface {
	// Path returns the file the pack was opened from.
	Path() string
	// TestCases returns the runnable cases in source order.
	TestCases() ([]testcase.Spec, error)
	// TotalCases returns the size of the test case catalogue; ok is false
	// when the pack has none.
	TotalCases() (total int, ok bool, err error)
	ExecutionLog() ([]ledger.Record, error)
	Report() (report.Rows, error)
	// Save replaces the execution log and report with the given contents.
	Save(log []ledger.Record, rows report.Rows) error
	Close() error
}

// HeaderReader is implemented by backends whose automation table carries
// free-form column headers that are auto-detected.
type HeaderReader interface {
	AutomationHeader() ([]string, error)
}

// CellLimiter is implemented by backends that cut cell text beyond a
// fixed number of characters.
type CellLimiter interface {
	MaxCellChars() int
}

// OpenFunc opens a pack with a registered backend. path is known to exist.
type OpenFunc func(path string, sheets Sheets) (Workbook, error)

// CreateFunc writes an empty pack with all tables and their headers.
type CreateFunc func(path string, sheets Sheets) error

type backend struct {
	name   string
	open   OpenFunc
	create CreateFunc
}

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]backend)
)

// Register makes a backend available for the given file extensions.
// It panics if an extension is registered twice.
func Register(name string, open OpenFunc, create CreateFunc, exts ...string) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if _, dup := backends[ext]; dup {
			panic("store: Register called twice for extension " + ext)
		}
		backends[ext] = backend{name: name, open: open, create: create}
	}
}

// Extensions lists the registered file extensions.
func Extensions() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	exts := make([]string, 0, len(backends))
	for ext := range backends {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func lookup(path string) (backend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	backendsMu.RLock()
	b, ok := backends[ext]
	backendsMu.RUnlock()
	if !ok {
		return backend{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return b, nil
}

// Open opens the pack at path with the backend registered for its extension.
func Open(path string, sheets Sheets) (Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat test pack: %w", err)
	}
	b, err := lookup(path)
	if err != nil {
		return nil, err
	}
	return b.open(path, sheets.WithDefaults())
}

// Create writes a new empty pack at path. An existing file is an error.
func Create(path string, sheets Sheets) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	}
	b, err := lookup(path)
	if err != nil {
		return err
	}
	if b.create == nil {
		return fmt.Errorf("%w: %s backend cannot create packs", ErrUnsupportedFormat, b.name)
	}
	return b.create(path, sheets.WithDefaults())
}
