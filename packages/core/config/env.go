package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variable names. The first five are the names test packs have
// always been driven by.
const (
	EnvBaseURL    = "BASE_URL"
	EnvWorkbook   = "EXCEL_PATH"
	EnvResultsDir = "RESULTS_DIR"
	EnvExecutor   = "EXECUTOR"
	EnvRunID      = "RUN_ID"
	EnvConfig     = "HITSHEET_CONFIG"
	EnvEnvFile    = "HITSHEET_ENV_FILE"
	EnvTimeout    = "HITSHEET_TIMEOUT"
	EnvOutput     = "HITSHEET_OUTPUT"
	EnvRate       = "HITSHEET_RATE"
	EnvNoColor    = "HITSHEET_NO_COLOR"
)

// FromEnv builds a config holding only the settings present in the
// environment, suitable for Merge. lookup is usually os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	c := &Config{}
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return v
	}

	c.BaseURL = get(EnvBaseURL)
	c.Workbook = get(EnvWorkbook)
	c.ResultsDir = get(EnvResultsDir)
	c.Executor = get(EnvExecutor)
	c.RunID = get(EnvRunID)
	c.Output = get(EnvOutput)

	if v := get(EnvTimeout); v != "" {
		ms, err := ParseTimeout(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = ms
	}
	if v := get(EnvRate); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("%s: invalid rate %q", EnvRate, v)
		}
		c.Rate = rate
	}
	if v := get(EnvNoColor); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvNoColor, err)
		}
		c.NoColor = BoolPtr(b)
	}
	return c, nil
}

// ParseTimeout accepts a Go duration ("15s", "1m") or a plain number of
// milliseconds and returns milliseconds.
func ParseTimeout(s string) (int, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("timeout must be positive: %q", s)
		}
		return ms, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive: %q", s)
	}
	return int(d.Milliseconds()), nil
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}
