// Package output renders run results for humans and CI systems.
//
// Supported output formats:
//   - Console: colored terminal output with per-case verdicts
//   - JSON: machine-readable run summary
//   - JUnit: JUnit XML for CI integration
//
// Every formatter implements Formatter. Formats that accumulate results
// before writing also implement Flushable.
package output
