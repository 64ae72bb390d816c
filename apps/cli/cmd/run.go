package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/config"
	"github.com/abdul-hamid-achik/hitsheet/packages/core/runner"
	"github.com/abdul-hamid-achik/hitsheet/packages/output"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

var runCmd = &cobra.Command{
	Use:   "run [workbook]",
	Short: "Run a test pack and write the results back into it",
	Long: `Run every case of a test pack's automation table in order, judge each
response, and write the execution log and report back into the pack.

The workbook defaults to EXCEL_PATH (TaskManagerAPI_TestPack.xlsx).
Cases that fail are reported but do not change the exit status.

Examples:
  hitsheet run
  hitsheet run TaskManagerAPI_TestPack.xlsx
  BASE_URL=http://localhost:9000 hitsheet run pack.yaml
  hitsheet run pack.db --run-id run-nightly --output junit --output-file report.xml
  hitsheet run pack.xlsx --dry-run
  hitsheet run pack.xlsx --watch`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	baseURLFlag         string
	resultsDirFlag      string
	executorFlag        string
	runIDFlag           string
	timeoutFlag         string
	rateFlag            float64
	waitForFlag         time.Duration
	followRedirectsFlag bool
	maxRedirectsFlag    int
	proxyFlag           string
	insecureFlag        bool
	headerFlags         []string
	varFlags            []string
	captureKeysFlag     []string
	outputFlag          string
	outputFileFlag      string
	dryRunFlag          bool
	watchFlag           bool

	automationSheetFlag string
	logSheetFlag        string
	reportSheetFlag     string
	testCasesSheetFlag  string
)

func init() {
	// Run identity and target
	runCmd.Flags().StringVar(&baseURLFlag, "base-url", "", "Base URL of the service under test (env: BASE_URL)")
	runCmd.Flags().StringVar(&resultsDirFlag, "results-dir", "", "Directory for per-case evidence files (env: RESULTS_DIR)")
	runCmd.Flags().StringVar(&executorFlag, "executor", "", "Executor recorded in the execution log (env: EXECUTOR)")
	runCmd.Flags().StringVar(&runIDFlag, "run-id", "", "Run identifier; defaults to run-YYYYMMDD-HHMMSS (env: RUN_ID)")

	// Output flags
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: console, json, junit (env: HITSHEET_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stdout)")

	// Execution flags
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Request timeout, e.g. 15s or 15000 (env: HITSHEET_TIMEOUT)")
	runCmd.Flags().Float64Var(&rateFlag, "rate", 0, "Maximum requests per second, 0 for unlimited (env: HITSHEET_RATE)")
	runCmd.Flags().DurationVar(&waitForFlag, "wait-for", 0, "Wait up to this long for the service to answer before the first case")
	runCmd.Flags().BoolVar(&followRedirectsFlag, "follow-redirects", true, "Follow HTTP redirects")
	runCmd.Flags().IntVar(&maxRedirectsFlag, "max-redirects", 0, "Maximum redirects to follow (default 10)")

	// Network flags
	runCmd.Flags().StringVar(&proxyFlag, "proxy", "", "Proxy URL for HTTP requests")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable SSL certificate validation")
	runCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, `Default request header, "Name: value" (repeatable)`)
	runCmd.Flags().StringArrayVar(&varFlags, "var", nil, "Seed variable, name=value (repeatable)")
	runCmd.Flags().StringSliceVar(&captureKeysFlag, "capture-keys", nil, "Response keys tried for save_as, in order (default id,task_id)")
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Resolve and show what would run without sending requests")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the workbook for changes and re-run")

	// Table names
	runCmd.Flags().StringVar(&automationSheetFlag, "automation-sheet", "", "Automation sheet name (default 06_Automation)")
	runCmd.Flags().StringVar(&logSheetFlag, "log-sheet", "", "Execution log sheet name (default 03_ExecutionLog)")
	runCmd.Flags().StringVar(&reportSheetFlag, "report-sheet", "", "Report sheet name (default 05_Report)")
	runCmd.Flags().StringVar(&testCasesSheetFlag, "testcases-sheet", "", "Test case catalogue sheet name (default 02_TestCases)")
}

// runFlags collects the run flags the user set into a config overlay.
func runFlags(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	c := &config.Config{
		BaseURL:      baseURLFlag,
		ResultsDir:   resultsDirFlag,
		Executor:     executorFlag,
		RunID:        runIDFlag,
		Output:       outputFlag,
		Rate:         rateFlag,
		MaxRedirects: maxRedirectsFlag,
		Proxy:        proxyFlag,
		CaptureKeys:  captureKeysFlag,
		Sheets: store.Sheets{
			Automation:   automationSheetFlag,
			ExecutionLog: logSheetFlag,
			Report:       reportSheetFlag,
			TestCases:    testCasesSheetFlag,
		},
	}

	if timeoutFlag != "" {
		ms, err := config.ParseTimeout(timeoutFlag)
		if err != nil {
			return nil, err
		}
		c.Timeout = ms
	}
	if flags.Changed("follow-redirects") {
		c.FollowRedirects = config.BoolPtr(followRedirectsFlag)
	}
	if insecureFlag {
		c.ValidateSSL = config.BoolPtr(false)
	}

	if len(headerFlags) > 0 {
		c.Headers = make(map[string]string, len(headerFlags))
		for _, h := range headerFlags {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q (want \"Name: value\")", h)
			}
			c.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	if len(varFlags) > 0 {
		c.Variables = make(map[string]any, len(varFlags))
		for _, v := range varFlags {
			name, value, ok := strings.Cut(v, "=")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid variable %q (want name=value)", v)
			}
			c.Variables[strings.TrimSpace(name)] = value
		}
	}
	return c, nil
}

// runnerConfig translates resolved settings into engine configuration.
func runnerConfig(s *config.Config) *runner.Config {
	return &runner.Config{
		BaseURL:           s.BaseURL,
		ResultsDir:        s.ResultsDir,
		Executor:          s.Executor,
		RunID:             s.RunID,
		Timeout:           s.TimeoutDuration(),
		NoFollowRedirects: !s.GetFollowRedirects(),
		MaxRedirects:      s.MaxRedirects,
		Insecure:          !s.GetValidateSSL(),
		Proxy:             s.Proxy,
		Headers:           s.Headers,
		CaptureKeys:       s.CaptureKeys,
		Variables:         s.Variables,
		Rate:              s.Rate,
		WaitFor:           waitForFlag,
		DryRun:            dryRunFlag,
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	overlay, err := runFlags(cmd)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	s := settings.Merge(overlay)
	if len(args) == 1 {
		s.Workbook = args[0]
	}
	if _, err := output.New(s.Output, io.Discard, false, true); err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if err := executeRun(cmd, s); err != nil {
		return err
	}
	if !watchFlag {
		return nil
	}
	return watchRun(cmd, s)
}

// executeRun opens the pack, runs it once and renders the result.
func executeRun(cmd *cobra.Command, s *config.Config) error {
	var out io.Writer = cmd.OutOrStdout()
	if outputFileFlag != "" {
		f, err := os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	formatter, err := output.New(s.Output, out, verboseFlag, s.GetNoColor())
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	formatter.FormatHeader(version)

	wb, err := store.Open(s.Workbook, s.Sheets)
	if err != nil {
		formatter.FormatError(err)
		return err
	}
	defer wb.Close()

	// Each run gets its own copy so a generated run id is not reused.
	r := runner.NewRunner(runnerConfig(s), runner.WithLogger(logger))
	defer r.Close()

	start := time.Now()
	result, runErr := r.Run(wb)
	if result != nil {
		formatter.FormatResult(result)
	}
	if runErr != nil {
		formatter.FormatError(runErr)
	}

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(time.Since(start)); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}
	return runErr
}

// watchRun re-runs the pack whenever the workbook file changes, ignoring
// the write-back of the run itself.
func watchRun(cmd *cobra.Command, s *config.Config) error {
	target, err := filepath.Abs(s.Workbook)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors save by rename, so watch the directory rather than the file.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lastSeen := modTime(target)
	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", s.Workbook)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce = time.After(WatchDebounceDelay)
			}

		case <-debounce:
			debounce = nil
			if m := modTime(target); m.Equal(lastSeen) {
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\nRe-running...\n", s.Workbook)
			if err := executeRun(cmd, s); err != nil {
				logger.Error("Run failed", zap.Error(err))
			}
			lastSeen = modTime(target)
			fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", s.Workbook)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
