package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/runner"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Workbook: "+result.Workbook))
	fmt.Fprintf(f.writer, "RUN_ID=%s  BASE_URL=%s  EXECUTOR=%s\n\n", result.RunID, result.BaseURL, result.Executor)

	if result.DryRun {
		f.formatPlan(result, yellow)
		return
	}

	for _, c := range result.Cases {
		symbol := green("✓")
		if !c.Passed() {
			symbol = red("✗")
		}
		status := c.Status()
		if c.Outcome != nil && c.Outcome.IsError() {
			status = red(status)
		}

		fmt.Fprintf(f.writer, "  %s %s %s %s -> %s %s\n",
			symbol, c.Spec.ID, c.Spec.Method, c.URL, status,
			cyan(fmt.Sprintf("(%dms)", c.Duration().Milliseconds())))

		if c.Judgement != nil {
			for _, check := range c.Judgement.Failed() {
				fmt.Fprintf(f.writer, "    %s %s\n", red("→"), check.Message)
			}
			if c.Outcome != nil && c.Outcome.IsError() {
				fmt.Fprintf(f.writer, "      %s\n", truncate(c.Outcome.Text, 200))
			}
		}

		for _, name := range c.Unresolved {
			fmt.Fprintf(f.writer, "    %s unresolved {{%s}}\n", yellow("!"), name)
		}

		if f.verbose {
			if c.Captured != nil {
				fmt.Fprintf(f.writer, "    %s = %v\n", c.Spec.SaveAs, c.Captured)
			} else if c.Spec.SaveAs != "" {
				fmt.Fprintf(f.writer, "    %s not captured (%s)\n", c.Spec.SaveAs, c.SkipReason)
			}
			if c.EvidencePath != "" {
				fmt.Fprintf(f.writer, "    evidence: %s\n", c.EvidencePath)
			}
		}
	}

	s := result.Summary
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Tests: ")
	if s.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", s.Passed)))
	}
	if s.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", s.Failed)))
	}
	fmt.Fprintf(f.writer, "%d total", s.Executed)
	if rate := s.PassRate(); rate != "" {
		fmt.Fprintf(f.writer, " (%s)", rate)
	}
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())
	if f.verbose && result.Latency.Count > 0 {
		l := result.Latency
		fmt.Fprintf(f.writer, "Latency: p50=%dms p90=%dms p99=%dms max=%dms\n",
			l.P50.Milliseconds(), l.P90.Milliseconds(), l.P99.Milliseconds(), l.Max.Milliseconds())
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) formatPlan(result *runner.RunResult, yellow func(a ...any) string) {
	for _, c := range result.Cases {
		fmt.Fprintf(f.writer, "  %s %s %s %s expect %s\n",
			yellow("-"), c.Spec.ID, c.Spec.Method, c.URL, c.Spec.Expect.String())
		if !c.Body.IsEmpty() {
			fmt.Fprintf(f.writer, "      body: %s\n", truncate(c.Body.String(), 200))
		}
		if c.Spec.SaveAs != "" {
			fmt.Fprintf(f.writer, "      save as: %s\n", c.Spec.SaveAs)
		}
	}
	fmt.Fprintf(f.writer, "\n%d cases would run (dry run)\n\n", len(result.Cases))
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitsheet"), version)
}
