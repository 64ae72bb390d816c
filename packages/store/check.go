package store

import (
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
)

// FilterQuery marks list-filter URLs that the pack conventionally excludes.
const FilterQuery = "?completed="

// CheckReport summarizes an automation table without running it.
type CheckReport struct {
	// Header and Columns are nil for backends with a fixed layout.
	Header  []string
	Columns testcase.Columns
	Rows    int
	// ExpectedByMethod lists the distinct expected status sets per method.
	ExpectedByMethod map[string][]string
	// ContainsByMethod lists the distinct non-empty expect_contains values.
	ContainsByMethod map[string][]string
	FilterRows       int
	Warnings         []string
}

// Check reads the automation table of wb and reports what the runner would
// see. Convention violations become warnings; only read errors fail.
func Check(wb Workbook) (*CheckReport, error) {
	rep := &CheckReport{
		ExpectedByMethod: make(map[string][]string),
		ContainsByMethod: make(map[string][]string),
	}

	if hr, ok := wb.(HeaderReader); ok {
		header, err := hr.AutomationHeader()
		if err != nil {
			return nil, err
		}
		cols, err := testcase.DetectColumns(header)
		if err != nil {
			return nil, err
		}
		rep.Header = header
		rep.Columns = cols
	}

	specs, err := wb.TestCases()
	if err != nil {
		return nil, err
	}
	rep.Rows = len(specs)

	expected := make(map[string]map[string]bool)
	contains := make(map[string]map[string]bool)
	add := func(m map[string]map[string]bool, method, v string) {
		if m[method] == nil {
			m[method] = make(map[string]bool)
		}
		m[method][v] = true
	}
	for _, s := range specs {
		add(expected, s.Method, s.Expect.String())
		if s.Expect.Contains != "" {
			add(contains, s.Method, s.Expect.Contains)
		}
		if strings.Contains(strings.ToLower(s.URL), FilterQuery) {
			rep.FilterRows++
		}
	}
	for method, set := range expected {
		rep.ExpectedByMethod[method] = sortedKeys(set)
	}
	for method, set := range contains {
		rep.ContainsByMethod[method] = sortedKeys(set)
	}

	rep.Warnings = rep.conventions()
	return rep, nil
}

func (r *CheckReport) conventions() []string {
	var warnings []string
	if post, ok := r.ExpectedByMethod["POST"]; ok && !(len(post) == 1 && post[0] == "201") {
		warnings = append(warnings, "POST cases should expect 201, found "+strings.Join(post, ", "))
	}
	if del, ok := r.ExpectedByMethod["DELETE"]; ok {
		if !(len(del) == 1 && del[0] == "200") {
			warnings = append(warnings, "DELETE cases should expect 200, found "+strings.Join(del, ", "))
		}
		found := false
		for _, c := range r.ContainsByMethod["DELETE"] {
			if strings.Contains(strings.ToLower(c), "deleted successfully") {
				found = true
			}
		}
		if !found {
			warnings = append(warnings, `no DELETE case checks for "deleted successfully"`)
		}
	}
	if r.FilterRows > 0 {
		warnings = append(warnings, "pack contains list filter rows ("+FilterQuery+")")
	}
	return warnings
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
