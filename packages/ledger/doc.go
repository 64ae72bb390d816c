// Package ledger holds the execution log: one record per executed case per run.
//
// Records are keyed by (RunID, TestCaseID). Re-running a case under the same
// run id replaces its earlier record; records of other runs are kept as-is.
package ledger
