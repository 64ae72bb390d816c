package testcase

import (
	"strconv"
	"strings"
)

// DefaultStatus is expected when a row leaves the status column empty.
const DefaultStatus = "200"

// Spec is one test-case row. It is immutable once loaded.
type Spec struct {
	Seq    int // 1-based position in the source, used for evidence file names
	ID     string
	Method string
	URL    string
	Body   Body
	Expect Expectations
	SaveAs string
}

// Expectations is what the verdict judge compares a response against.
type Expectations struct {
	Statuses []string
	Contains string
}

// StatusSet returns the expected statuses, defaulting to DefaultStatus.
func (e Expectations) StatusSet() []string {
	if len(e.Statuses) == 0 {
		return []string{DefaultStatus}
	}
	return e.Statuses
}

// HasStatus reports whether status is one of the expected statuses.
func (e Expectations) HasStatus(status string) bool {
	for _, s := range e.StatusSet() {
		if s == status {
			return true
		}
	}
	return false
}

// String renders the status set the way it is written in a sheet.
func (e Expectations) String() string {
	return strings.Join(e.StatusSet(), "|")
}

// ParseStatuses splits a pipe-delimited status set such as "200|201".
// Spreadsheet float renderings ("201.0") are normalized to integers.
func ParseStatuses(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, "|") {
		part = normalizeStatus(strings.TrimSpace(part))
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	if len(out) == 0 {
		return []string{DefaultStatus}
	}
	return out
}

func normalizeStatus(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

// NormalizeMethod upper-cases a method name, defaulting to GET.
func NormalizeMethod(m string) string {
	m = strings.ToUpper(strings.TrimSpace(m))
	if m == "" {
		return "GET"
	}
	return m
}

// NormalizeURL returns "/" for an empty URL cell.
func NormalizeURL(u string) string {
	if strings.TrimSpace(u) == "" {
		return "/"
	}
	return u
}
