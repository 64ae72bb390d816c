// Package cmd implements the hitsheet CLI commands using Cobra.
//
// Available commands:
//   - run: Execute a test pack and write results back into it
//   - validate: Check a test pack's automation table without executing
//   - list: Display the cases of a test pack
//   - init: Create a new test pack with empty tables
//   - serve: Start the bundled task API for local runs
//   - version: Show hitsheet version information
package cmd
