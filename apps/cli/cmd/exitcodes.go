package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

// Exit codes for hitsheet CLI. Failing cases are results, not errors: a run
// whose cases fail still exits with ExitSuccess.
const (
	// ExitSuccess indicates the run completed and was written back
	ExitSuccess = 0

	// ExitRunError indicates the run could not complete, e.g. saving failed
	ExitRunError = 1

	// ExitSourceError indicates a missing or unreadable test pack
	ExitSourceError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, store.ErrSourceNotFound),
		errors.Is(err, store.ErrTableNotFound),
		errors.Is(err, store.ErrUnsupportedFormat),
		errors.Is(err, testcase.ErrMissingColumns):
		return ExitSourceError
	default:
		return ExitRunError
	}
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withExitCode(ExitUsageError, fn(cmd, args))
	}
}
