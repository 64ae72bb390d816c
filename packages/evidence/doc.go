// Package evidence writes the raw status and response text of every executed
// case to the results directory.
//
// Each case produces two files sharing a stem built from its 1-based position
// and its id: <stem>.status holds the status string and <stem>.json the
// response text verbatim. The .json path is what the execution log records.
package evidence
