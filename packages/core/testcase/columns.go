package testcase

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns is returned when a required column cannot be detected.
var ErrMissingColumns = errors.New("required columns not found")

// Field identifies one column of an automation sheet.
type Field int

const (
	FieldID Field = iota
	FieldMethod
	FieldURL
	FieldBody
	FieldExpectedStatus
	FieldSaveAs
	FieldExpectContains
)

var fieldNames = map[Field]string{
	FieldID:             "id",
	FieldMethod:         "method",
	FieldURL:            "url",
	FieldBody:           "body",
	FieldExpectedStatus: "expectedStatus",
	FieldSaveAs:         "saveAs",
	FieldExpectContains: "expectContains",
}

func (f Field) String() string {
	return fieldNames[f]
}

// Fields lists every field in detection order.
var Fields = []Field{
	FieldID,
	FieldSaveAs,
	FieldExpectContains,
	FieldExpectedStatus,
	FieldMethod,
	FieldURL,
	FieldBody,
}

// Candidates are header names tried for each field, most specific first.
// The Japanese names are the headers written by the original test pack.
var Candidates = map[Field][]string{
	FieldID:             {"テストケースID", "test case id", "testcaseid", "case id", "id"},
	FieldMethod:         {"メソッド", "method"},
	FieldURL:            {"URL", "url", "path"},
	FieldBody:           {"ボディ(JSON)", "ボディ", "body"},
	FieldExpectedStatus: {"期待ステータス", "expected status", "expectedstatus", "expected", "status"},
	FieldSaveAs:         {"save_as（任意）", "save_as", "saveas", "save as"},
	FieldExpectContains: {"expect_contains（任意）", "expect_contains", "expectcontains", "contains"},
}

// Required fields must be present for a sheet to be runnable.
var Required = []Field{FieldID, FieldMethod, FieldURL, FieldExpectedStatus}

// Columns maps each detected field to its column index.
type Columns map[Field]int

// Header returns the detected header name for a field, or "".
func (c Columns) Header(header []string, f Field) string {
	idx, ok := c[f]
	if !ok || idx >= len(header) {
		return ""
	}
	return header[idx]
}

// DetectColumns finds each field in header. Exact (case-insensitive) matches
// win over substring matches, and a column is claimed by at most one field.
func DetectColumns(header []string) (Columns, error) {
	cols := make(Columns)
	claimed := make(map[int]bool)

	for _, exact := range []bool{true, false} {
		for _, f := range Fields {
			if _, ok := cols[f]; ok {
				continue
			}
			if idx := findColumn(header, Candidates[f], claimed, exact); idx >= 0 {
				cols[f] = idx
				claimed[idx] = true
			}
		}
	}

	var missing []string
	for _, f := range Required {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

func findColumn(header, candidates []string, claimed map[int]bool, exact bool) int {
	for _, cand := range candidates {
		cand = strings.ToLower(cand)
		for i, h := range header {
			if claimed[i] {
				continue
			}
			h = strings.ToLower(strings.TrimSpace(h))
			if h == "" {
				continue
			}
			if exact && h == cand {
				return i
			}
			if !exact && strings.Contains(h, cand) {
				return i
			}
		}
	}
	return -1
}

// FromRow builds a Spec from one data row.
func FromRow(cols Columns, row []string, seq int) Spec {
	cell := func(f Field) string {
		idx, ok := cols[f]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	return Spec{
		Seq:    seq,
		ID:     strings.TrimSpace(cell(FieldID)),
		Method: NormalizeMethod(cell(FieldMethod)),
		URL:    NormalizeURL(cell(FieldURL)),
		Body:   BodyFromText(cell(FieldBody)),
		Expect: Expectations{
			Statuses: ParseStatuses(cell(FieldExpectedStatus)),
			Contains: strings.TrimSpace(cell(FieldExpectContains)),
		},
		SaveAs: strings.TrimSpace(cell(FieldSaveAs)),
	}
}

// IsBlankRow reports whether every cell is empty.
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
