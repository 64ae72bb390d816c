package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/output"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
	"github.com/abdul-hamid-achik/hitsheet/packages/store/yamlpack"
	"github.com/abdul-hamid-achik/hitsheet/packages/taskapi"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"source missing", fmt.Errorf("open: %w", store.ErrSourceNotFound), ExitSourceError},
		{"table missing", store.ErrTableNotFound, ExitSourceError},
		{"unsupported", store.ErrUnsupportedFormat, ExitSourceError},
		{"columns", fmt.Errorf("x: %w", testcase.ErrMissingColumns), ExitSourceError},
		{"config", withExitCode(ExitConfigError, errors.New("bad")), ExitConfigError},
		{"usage", withExitCode(ExitUsageError, errors.New("bad")), ExitUsageError},
		{"other", errors.New("saving results: disk full"), ExitRunError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
	assert.Nil(t, withExitCode(ExitUsageError, nil))
}

func writePack(t *testing.T, dir string) string {
	t.Helper()
	doc := yamlpack.Document{
		Cases: []yamlpack.Case{
			{ID: "TC-ROOT", Method: "GET", URL: "/", ExpectedStatus: 200, ExpectContains: "Hello"},
			{ID: "TC-POST-001", Method: "POST", URL: "/tasks/", Body: map[string]any{"title": "buy milk"}, ExpectedStatus: 201, SaveAs: "task_id"},
			{ID: "TC-GET-001", Method: "GET", URL: "/tasks/{{task_id}}", ExpectedStatus: 200, ExpectContains: "buy milk"},
			{ID: "TC-DEL-001", Method: "DELETE", URL: "/tasks/{{task_id}}", ExpectedStatus: 200, ExpectContains: "deleted successfully"},
			{ID: "TC-DEL-002", Method: "GET", URL: "/tasks/{{task_id}}", ExpectedStatus: 200},
		},
		TestCases: []any{"TC-ROOT", "TC-POST-001", "TC-GET-001", "TC-DEL-001", "TC-DEL-002", "TC-MANUAL"},
	}
	data, err := yaml.Marshal(&doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "pack.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand_JSON(t *testing.T) {
	api := httptest.NewServer(taskapi.NewHandler(taskapi.NewStore(nil)))
	defer api.Close()

	dir := t.TempDir()
	pack := writePack(t, dir)
	results := filepath.Join(dir, "results")

	out, err := execute(t, "run", pack,
		"--base-url", api.URL,
		"--results-dir", results,
		"--executor", "ci",
		"--run-id", "run-cli",
		"--output", "json",
		"--no-color")
	require.NoError(t, err, out)

	start := bytes.IndexByte([]byte(out), '{')
	require.GreaterOrEqual(t, start, 0, out)
	var got output.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out[start:]), &got))

	assert.Equal(t, "run-cli", got.RunID)
	assert.Equal(t, "ci", got.Executor)
	assert.Equal(t, 5, got.Summary.Executed)
	assert.Equal(t, 4, got.Summary.Passed)
	assert.Equal(t, 1, got.Summary.Failed)
	assert.Equal(t, "80.0%", got.Summary.PassRate)
	require.NotNil(t, got.Summary.TotalCases)
	assert.Equal(t, 6, *got.Summary.TotalCases)
	assert.Equal(t, "404", got.Tests[4].Status)

	wb, err := store.Open(pack, store.DefaultSheets())
	require.NoError(t, err)
	defer wb.Close()
	log, err := wb.ExecutionLog()
	require.NoError(t, err)
	assert.Len(t, log, 5)
	rows, err := wb.Report()
	require.NoError(t, err)
	rate, ok := rows.Get("Pass率（今回RUN）")
	assert.True(t, ok)
	assert.Equal(t, "80.0%", rate)

	_, err = os.Stat(filepath.Join(results, "02_TC-POST-001.json"))
	assert.NoError(t, err)
}

func TestRunCommand_MissingWorkbook(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.xlsx"), "--output", "console", "--no-color")
	require.Error(t, err)
	assert.Equal(t, ExitSourceError, exitCode(err))
}

func TestRunCommand_BadHeader(t *testing.T) {
	pack := writePack(t, t.TempDir())
	_, err := execute(t, "run", pack, "--header", "novalue", "--output", "console")
	headerFlags = nil
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestValidateCommand(t *testing.T) {
	pack := writePack(t, t.TempDir())
	out, err := execute(t, "validate", pack)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows: 5")
	assert.Contains(t, out, "POST expected: [201]")
	assert.Contains(t, out, "DELETE expect_contains: [deleted successfully]")
	assert.Contains(t, out, "Valid: "+pack)
}

func TestInitAndListCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.yaml")
	out, err := execute(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)

	_, err = execute(t, "init", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = execute(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "TC-001")
	assert.Contains(t, out, "1 automated cases, 1 in catalogue")
}
