package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_\-]+`)

// Stem returns the file name stem for the case at seq (1-based) with id.
// Runs of characters outside [A-Za-z0-9_-] collapse to a single underscore.
func Stem(seq int, id string) string {
	return unsafeChars.ReplaceAllString(fmt.Sprintf("%02d_%s", seq, id), "_")
}

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	return nil
}

type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Dir() string {
	return w.dir
}

// Paths returns the status and body file paths for a case without writing.
func (w *Writer) Paths(seq int, id string) (statusPath, bodyPath string) {
	stem := Stem(seq, id)
	return filepath.Join(w.dir, stem+".status"), filepath.Join(w.dir, stem+".json")
}

// Write stores status and text and returns the path of the body file.
func (w *Writer) Write(seq int, id, status, text string) (string, error) {
	statusPath, bodyPath := w.Paths(seq, id)

	if err := os.WriteFile(statusPath, []byte(status), 0o644); err != nil {
		return "", fmt.Errorf("failed to write status evidence: %w", err)
	}
	if err := os.WriteFile(bodyPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write body evidence: %w", err)
	}
	return bodyPath, nil
}
