// Package capture extracts an identifier from a response body so later cases
// can reference it through a saved variable.
//
// Only the top-level JSON object is inspected. Keys are tried in order and
// the first one present wins; a null under that key means nothing is saved.
package capture
