// Package http dispatches test-case requests for hitsheet.
//
// It wraps the standard library's http package with:
//   - A fixed per-request timeout (15s by default)
//   - Type-driven body encoding for empty, JSON and raw bodies
//   - Optional request pacing with a token-bucket limiter
//   - Outcome normalization: network failures become the "ERR" status
//     instead of an error
package http
