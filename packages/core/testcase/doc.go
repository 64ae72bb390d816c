// Package testcase defines the declarative test-case rows consumed by the runner.
//
// It provides:
//   - Spec, one HTTP interaction and its expected outcome
//   - Body, a tagged request body (empty, JSON value or raw text)
//   - Expectation parsing for pipe-delimited status sets
//   - Column auto-detection for tabular sources with Japanese or English headers
package testcase
