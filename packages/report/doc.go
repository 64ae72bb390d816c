// Package report maintains the key/value summary table of a test pack.
package report
