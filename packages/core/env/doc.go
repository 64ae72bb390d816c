// Package env handles variables and placeholder resolution for a run.
//
// It provides functionality for:
//   - The per-run variable store, filled by saveAs captures
//   - Placeholder interpolation using {{name}} syntax in URLs and bodies
//   - OS environment lookups with {{$NAME}} and built-in functions with {{fn()}}
//   - Loading .env files and seed variables from configuration
//
// Unknown placeholders are left in place and reported, never treated as errors.
package env
