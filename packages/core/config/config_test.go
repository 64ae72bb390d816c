package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "http://127.0.0.1:8000", c.BaseURL)
	assert.Equal(t, "./results", c.ResultsDir)
	assert.Equal(t, "Jun", c.Executor)
	assert.Equal(t, 15000, c.Timeout)
	assert.True(t, c.GetFollowRedirects())
	assert.False(t, c.GetNoColor())
	assert.True(t, c.GetValidateSSL())
	assert.Equal(t, 10, c.MaxRedirects)
	assert.Equal(t, []string{"id", "task_id"}, c.CaptureKeys)
	assert.Equal(t, store.DefaultSheets(), c.Sheets)
	assert.True(t, c.IsDefault())
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	c, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, c.IsDefault())
}

func TestLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hitsheet.json")
	data := `{"baseUrl":"http://api:9000","timeout":5000,"followRedirects":false,
	"headers":{"X-Env":"ci"},"sheets":{"automation":"Cases"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://api:9000", c.BaseURL)
	assert.Equal(t, 5000, c.Timeout)
	assert.False(t, c.GetFollowRedirects())
	assert.Equal(t, "ci", c.Headers["X-Env"])
	assert.Equal(t, "Cases", c.Sheets.Automation)
	// unset fields keep their defaults
	assert.Equal(t, "Jun", c.Executor)
	assert.Equal(t, store.DefaultSheets().ExecutionLog, c.Sheets.ExecutionLog)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hitsheet.yaml")
	data := `
baseUrl: http://staging:8000
executor: ci-bot
rate: 2.5
captureKeys: [uuid]
variables:
  token: abc
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://staging:8000", c.BaseURL)
	assert.Equal(t, "ci-bot", c.Executor)
	assert.Equal(t, 2.5, c.Rate)
	assert.Equal(t, []string{"uuid"}, c.CaptureKeys)
	assert.Equal(t, "abc", c.Variables["token"])
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hitsheet.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1", "B": "2"}

	merged := base.Merge(&Config{
		BaseURL:         "http://other",
		FollowRedirects: BoolPtr(false),
		ValidateSSL:     BoolPtr(false),
		Proxy:           "http://proxy:3128",
		Headers:         map[string]string{"B": "3"},
		Sheets:          store.Sheets{Report: "Summary"},
	})

	assert.Equal(t, "http://other", merged.BaseURL)
	assert.False(t, merged.GetFollowRedirects())
	assert.False(t, merged.GetValidateSSL())
	assert.Equal(t, "http://proxy:3128", merged.Proxy)
	assert.Equal(t, map[string]string{"A": "1", "B": "3"}, merged.Headers)
	assert.Equal(t, "Summary", merged.Sheets.Report)
	assert.Equal(t, store.DefaultSheets().Automation, merged.Sheets.Automation)
	assert.Equal(t, "Jun", merged.Executor)

	// receiver untouched
	assert.Equal(t, DefaultBaseURL, base.BaseURL)
	assert.Equal(t, "2", base.Headers["B"])

	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	for _, name := range []string{"hitsheet.json", "hitsheet.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			c := DefaultConfig()
			c.Executor = "qa"
			require.NoError(t, c.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, "qa", loaded.Executor)
			assert.Equal(t, c.Sheets, loaded.Sheets)
		})
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvBaseURL:  "http://env:1",
		EnvWorkbook: "pack.xlsx",
		EnvExecutor: "ci",
		EnvRunID:    "run-fixed",
		EnvTimeout:  "2s",
		EnvRate:     "4",
		EnvNoColor:  "true",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c, err := FromEnv(lookup)
	require.NoError(t, err)
	assert.Equal(t, "http://env:1", c.BaseURL)
	assert.Equal(t, "pack.xlsx", c.Workbook)
	assert.Equal(t, "ci", c.Executor)
	assert.Equal(t, "run-fixed", c.RunID)
	assert.Equal(t, 2000, c.Timeout)
	assert.Equal(t, 4.0, c.Rate)
	assert.True(t, c.GetNoColor())

	merged := DefaultConfig().Merge(c)
	assert.Equal(t, "./results", merged.ResultsDir)
	assert.Equal(t, "http://env:1", merged.BaseURL)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		EnvTimeout: "soon",
		EnvRate:    "fast",
		EnvNoColor: "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			})
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"15000", 15000, false},
		{"15s", 15000, false},
		{"250ms", 250, false},
		{"0", 0, true},
		{"-1s", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeout(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
