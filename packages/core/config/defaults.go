package config

import (
	"github.com/abdul-hamid-achik/hitsheet/packages/capture"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

const (
	DefaultBaseURL      = "http://127.0.0.1:8000"
	DefaultWorkbook     = "TaskManagerAPI_TestPack.xlsx"
	DefaultResultsDir   = "./results"
	DefaultExecutor     = "Jun"
	DefaultTimeout      = 15000 // 15 seconds
	DefaultMaxRedirects = 10
	DefaultOutput       = "console"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		Workbook:        DefaultWorkbook,
		ResultsDir:      DefaultResultsDir,
		Executor:        DefaultExecutor,
		Timeout:         DefaultTimeout,
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    DefaultMaxRedirects,
		ValidateSSL:     BoolPtr(true),
		CaptureKeys:     append([]string(nil), capture.DefaultKeys...),
		Sheets:          store.DefaultSheets(),
		Output:          DefaultOutput,
		NoColor:         BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.BaseURL == defaults.BaseURL &&
		c.Workbook == defaults.Workbook &&
		c.ResultsDir == defaults.ResultsDir &&
		c.Executor == defaults.Executor &&
		c.RunID == "" &&
		c.Timeout == defaults.Timeout &&
		c.GetFollowRedirects() &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.GetValidateSSL() &&
		c.Proxy == "" &&
		len(c.Headers) == 0 &&
		len(c.Variables) == 0 &&
		c.Rate == 0 &&
		c.Sheets == defaults.Sheets &&
		c.Output == defaults.Output &&
		!c.GetNoColor()
}
