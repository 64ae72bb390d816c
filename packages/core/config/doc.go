// Package config handles configuration loading for hitsheet.
//
// Settings are layered, later layers winning:
//   - built-in defaults
//   - a config file (.hitsheet.json, hitsheet.json, .hitsheet.yaml, hitsheet.yaml)
//   - environment variables (BASE_URL, EXCEL_PATH, RESULTS_DIR, EXECUTOR,
//     RUN_ID and the HITSHEET_* variables)
//   - command line flags, applied by the CLI
package config
