package evidence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStem(t *testing.T) {
	tests := []struct {
		seq  int
		id   string
		want string
	}{
		{1, "TC-001", "01_TC-001"},
		{12, "TC_12", "12_TC_12"},
		{3, "TC 003/a", "03_TC_003_a"},
		{4, "タスク作成", "04__"},
		{5, "", "05_"},
		{123, "x", "123_x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stem(tt.seq, tt.id))
	}
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	require.NoError(t, EnsureDir(dir))

	w := NewWriter(dir)
	path, err := w.Write(2, "TC-002", "201", `{"id":1}`)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "02_TC-002.json"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(body))

	status, err := os.ReadFile(filepath.Join(dir, "02_TC-002.status"))
	require.NoError(t, err)
	assert.Equal(t, "201", string(status))
}

func TestWriter_WriteOverwrites(t *testing.T) {
	w := NewWriter(t.TempDir())
	_, err := w.Write(1, "a", "200", "first")
	require.NoError(t, err)
	path, err := w.Write(1, "a", "ERR", "second")
	require.NoError(t, err)

	body, _ := os.ReadFile(path)
	assert.Equal(t, "second", string(body))
}

func TestWriter_WriteMissingDir(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "missing"))
	_, err := w.Write(1, "a", "200", "x")
	assert.Error(t, err)
}
