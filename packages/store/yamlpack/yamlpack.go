// Package yamlpack is the YAML backend of store. Importing it registers the
// .yaml and .yml extensions.
//
// A YAML pack keeps its tables as top-level sequences. Request bodies may be
// written as YAML mappings or sequences and are sent as JSON:
//
//	cases:
//	  - id: TC-001
//	    method: POST
//	    url: /tasks/
//	    body: {title: "buy milk"}
//	    expectedStatus: 201
//	    saveAs: task_id
//	  - id: TC-002
//	    url: /tasks/{{task_id}}
//	    expectedStatus: [200, 404]
//	testCases:
//	  - TC-001
//	  - TC-002
//
// Top-level keys other than the four tables are preserved on save.
package yamlpack

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/ledger"
	"github.com/abdul-hamid-achik/hitsheet/packages/report"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

func init() {
	store.Register("yaml", Open, Create, ".yaml", ".yml")
}

type Case struct {
	ID             string `yaml:"id"`
	Method         string `yaml:"method,omitempty"`
	URL            string `yaml:"url,omitempty"`
	Body           any    `yaml:"body,omitempty"`
	ExpectedStatus any    `yaml:"expectedStatus,omitempty"`
	SaveAs         string `yaml:"saveAs,omitempty"`
	ExpectContains string `yaml:"expectContains,omitempty"`
}

type LogEntry struct {
	RunID        string   `yaml:"runId"`
	ExecutedAt   string   `yaml:"executedAt"`
	Executor     string   `yaml:"executor"`
	TestCaseID   string   `yaml:"testCaseId"`
	ActualResult string   `yaml:"actualResult"`
	Verdict      string   `yaml:"verdict"`
	EvidencePath string   `yaml:"evidencePath"`
	Note         string   `yaml:"note"`
	Unresolved   []string `yaml:"unresolved,omitempty"`
}

type ReportEntry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Document is the on-disk layout of a YAML pack.
type Document struct {
	Cases        []Case         `yaml:"cases"`
	TestCases    []any          `yaml:"testCases,omitempty"`
	ExecutionLog []LogEntry     `yaml:"executionLog"`
	Report       []ReportEntry  `yaml:"report"`
	Extra        map[string]any `yaml:",inline"`

	hasCases     bool
	hasTestCases bool
}

type Workbook struct {
	path string
	doc  *Document
}

func load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack: %w", err)
	}

	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to parse pack: %w", err)
	}

	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse pack: %w", err)
	}
	_, doc.hasCases = keys["cases"]
	_, doc.hasTestCases = keys["testCases"]
	return doc, nil
}

// Open reads the pack at path. A pack without a cases key is rejected.
func Open(path string, _ store.Sheets) (store.Workbook, error) {
	doc, err := load(path)
	if err != nil {
		return nil, err
	}
	if !doc.hasCases {
		return nil, fmt.Errorf("%w: key \"cases\" in %s", store.ErrTableNotFound, path)
	}
	return &Workbook{path: path, doc: doc}, nil
}

func (w *Workbook) Path() string {
	return w.path
}

func (w *Workbook) Close() error {
	return nil
}

func (w *Workbook) TestCases() ([]testcase.Spec, error) {
	specs := make([]testcase.Spec, 0, len(w.doc.Cases))
	for i, c := range w.doc.Cases {
		status, err := statusText(c.ExpectedStatus)
		if err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i+1, c.ID, err)
		}
		specs = append(specs, testcase.Spec{
			Seq:    i + 1,
			ID:     strings.TrimSpace(c.ID),
			Method: testcase.NormalizeMethod(c.Method),
			URL:    testcase.NormalizeURL(c.URL),
			Body:   testcase.BodyFromValue(c.Body),
			Expect: testcase.Expectations{
				Statuses: testcase.ParseStatuses(status),
				Contains: strings.TrimSpace(c.ExpectContains),
			},
			SaveAs: strings.TrimSpace(c.SaveAs),
		})
	}
	return specs, nil
}

// statusText accepts 201, "200|201" or [200, 201].
func statusText(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case float64:
		if val != math.Trunc(val) {
			return "", fmt.Errorf("invalid expected status %v", val)
		}
		return strconv.Itoa(int(val)), nil
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			s, err := statusText(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "|"), nil
	default:
		return "", fmt.Errorf("invalid expected status %v", val)
	}
}

func (w *Workbook) TotalCases() (int, bool, error) {
	if !w.doc.hasTestCases {
		return 0, false, nil
	}
	return len(w.doc.TestCases), true, nil
}

func (w *Workbook) ExecutionLog() ([]ledger.Record, error) {
	records := make([]ledger.Record, 0, len(w.doc.ExecutionLog))
	for _, e := range w.doc.ExecutionLog {
		records = append(records, ledger.Record{
			RunID:        e.RunID,
			ExecutedAt:   e.ExecutedAt,
			Executor:     e.Executor,
			TestCaseID:   e.TestCaseID,
			ActualResult: e.ActualResult,
			Verdict:      e.Verdict,
			EvidencePath: e.EvidencePath,
			Note:         e.Note,
			Unresolved:   e.Unresolved,
		})
	}
	return records, nil
}

func (w *Workbook) Report() (report.Rows, error) {
	var rows report.Rows
	for _, e := range w.doc.Report {
		rows = append(rows, report.Row{Key: e.Key, Value: e.Value})
	}
	return rows, nil
}

// Save rewrites the whole file with the new log and report.
func (w *Workbook) Save(log []ledger.Record, rows report.Rows) error {
	w.doc.ExecutionLog = make([]LogEntry, 0, len(log))
	for _, r := range log {
		w.doc.ExecutionLog = append(w.doc.ExecutionLog, LogEntry{
			RunID:        r.RunID,
			ExecutedAt:   r.ExecutedAt,
			Executor:     r.Executor,
			TestCaseID:   r.TestCaseID,
			ActualResult: r.ActualResult,
			Verdict:      r.Verdict,
			EvidencePath: r.EvidencePath,
			Note:         r.Note,
			Unresolved:   r.Unresolved,
		})
	}
	w.doc.Report = make([]ReportEntry, 0, len(rows))
	for _, r := range rows {
		w.doc.Report = append(w.doc.Report, ReportEntry{Key: r.Key, Value: r.Value})
	}
	return write(w.path, w.doc)
}

func write(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode pack: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write pack: %w", err)
	}
	return nil
}

// Create writes a pack with a single example case.
func Create(path string, _ store.Sheets) error {
	doc := &Document{
		Cases: []Case{{
			ID:             "TC-001",
			Method:         "GET",
			URL:            "/",
			ExpectedStatus: 200,
		}},
		TestCases:    []any{"TC-001"},
		ExecutionLog: []LogEntry{},
		Report:       []ReportEntry{},
	}
	return write(path, doc)
}
