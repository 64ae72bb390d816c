// Package assertions decides the verdict of a single executed case.
//
// A case passes when the observed status is one of the expected statuses and,
// if an expected substring is configured, the raw response text contains it.
// Each condition is reported as its own Result so formatters can explain a
// failure.
package assertions
