// Package builtin provides template functions available inside test-case
// URL and body cells.
//
// Available functions:
//   - uuid(): random UUID v4, handy for unique task titles
//   - now(): current UTC time in RFC 3339
//   - timestamp(): current Unix timestamp
//   - date(layout): current UTC date, Go layout, default 2006-01-02
//   - random(min, max): random integer in range, default 0..100
//   - randomString(length): random alphanumeric string, default 16
//
// Functions are invoked as {{uuid()}} in a cell.
package builtin
