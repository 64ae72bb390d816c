package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{
			name:    "simple key value",
			content: "BASE_URL=http://127.0.0.1:8000",
			expected: map[string]string{
				"BASE_URL": "http://127.0.0.1:8000",
			},
		},
		{
			name:    "quoted values",
			content: "EXECUTOR=\"Jun Sato\"\nRUN_ID='run-1'",
			expected: map[string]string{
				"EXECUTOR": "Jun Sato",
				"RUN_ID":   "run-1",
			},
		},
		{
			name:    "export prefix",
			content: "export RESULTS_DIR=./out",
			expected: map[string]string{
				"RESULTS_DIR": "./out",
			},
		},
		{
			name:    "comments and blank lines",
			content: "# workbook\n\nEXCEL_PATH=pack.xlsx\n",
			expected: map[string]string{
				"EXCEL_PATH": "pack.xlsx",
			},
		},
		{
			name:    "value with equals sign",
			content: "BASE_URL=http://host/api?x=1",
			expected: map[string]string{
				"BASE_URL": "http://host/api?x=1",
			},
		},
		{
			name:     "line without equals",
			content:  "garbage",
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envFile := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(envFile, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write temp file: %v", err)
			}

			result, err := LoadDotEnv(envFile)
			if err != nil {
				t.Fatalf("LoadDotEnv() error = %v", err)
			}

			if len(result) != len(tt.expected) {
				t.Errorf("LoadDotEnv() returned %d keys, want %d", len(result), len(tt.expected))
			}
			for k, v := range tt.expected {
				if got := result[k]; got != v {
					t.Errorf("LoadDotEnv()[%q] = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestLoadDotEnvFileNotFound(t *testing.T) {
	if _, err := LoadDotEnv("/nonexistent/path/.env"); err == nil {
		t.Error("LoadDotEnv() expected error for non-existent file")
	}
}

func TestLoadAndExportDotEnv(t *testing.T) {
	t.Setenv("HITSHEET_TEST_SET", "from-env")
	t.Setenv("HITSHEET_TEST_UNSET", "")
	os.Unsetenv("HITSHEET_TEST_UNSET")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "HITSHEET_TEST_SET=from-file\nHITSHEET_TEST_UNSET=from-file\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAndExportDotEnv(envFile); err != nil {
		t.Fatalf("LoadAndExportDotEnv() error = %v", err)
	}

	if got := os.Getenv("HITSHEET_TEST_SET"); got != "from-env" {
		t.Errorf("existing variable overwritten: got %q", got)
	}
	if got := os.Getenv("HITSHEET_TEST_UNSET"); got != "from-file" {
		t.Errorf("unset variable not exported: got %q", got)
	}
}

func TestSeedVariables(t *testing.T) {
	t.Setenv(VariablePrefix+"token", "abc")
	t.Setenv(VariablePrefix+"task_id", "42")

	vars := SeedVariables(map[string]any{"task_id": 1, "other": "x"})

	if vars["token"] != "abc" {
		t.Errorf("token = %v, want abc", vars["token"])
	}
	if vars["task_id"] != "42" {
		t.Errorf("task_id = %v, want environment value 42", vars["task_id"])
	}
	if vars["other"] != "x" {
		t.Errorf("other = %v, want x", vars["other"])
	}
}
