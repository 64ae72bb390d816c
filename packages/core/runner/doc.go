// Package runner executes a test pack against a service.
//
// Cases run one at a time in source order, because later cases may reference
// values captured by earlier ones. Each case moves through the same states:
//
//	Pending -> Dispatched -> Extracted | ExtractionSkipped -> Judged -> Logged
//
// Dispatch never fails the run: transport errors become an ERR status and a
// Fail verdict. The pack's execution log and report are read once before the
// first case and written once after the last.
package runner
