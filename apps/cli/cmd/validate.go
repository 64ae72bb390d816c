package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/testcase"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

var strictFlag bool

var validateCmd = &cobra.Command{
	Use:   "validate [workbook]",
	Short: "Check a test pack without executing it",
	Long: `Check a test pack's automation table without sending any request.

Reports the detected columns, the number of cases, the expected statuses
and expect_contains values per method, and list filter rows. Convention
findings are printed as warnings; --strict turns them into a failure.

Examples:
  hitsheet validate
  hitsheet validate TaskManagerAPI_TestPack.xlsx
  hitsheet validate pack.yaml --strict`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().BoolVar(&strictFlag, "strict", false, "Fail when convention warnings are found")
	validateCmd.Flags().StringVar(&automationSheetFlag, "automation-sheet", "", "Automation sheet name (default 06_Automation)")
}

func workbookArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return settings.Workbook
}

func validateCommand(cmd *cobra.Command, args []string) error {
	path := workbookArg(args)
	sheets := settings.Sheets
	if automationSheetFlag != "" {
		sheets.Automation = automationSheetFlag
	}

	wb, err := store.Open(path, sheets)
	if err != nil {
		return err
	}
	defer wb.Close()

	rep, err := store.Check(wb)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "---- %s ----\n", path)
	if rep.Header != nil {
		fmt.Fprintf(w, "Columns: %s\n", strings.Join(rep.Header, ", "))
		var detected []string
		for _, f := range []testcase.Field{
			testcase.FieldID, testcase.FieldMethod, testcase.FieldURL, testcase.FieldBody,
			testcase.FieldExpectedStatus, testcase.FieldSaveAs, testcase.FieldExpectContains,
		} {
			name := rep.Columns.Header(rep.Header, f)
			if name == "" {
				name = "-"
			}
			detected = append(detected, f.String()+": "+name)
		}
		fmt.Fprintf(w, "Detected -> %s\n", strings.Join(detected, " | "))
	}
	fmt.Fprintf(w, "Rows: %d\n", rep.Rows)

	methods := make([]string, 0, len(rep.ExpectedByMethod))
	for m := range rep.ExpectedByMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		fmt.Fprintf(w, "%s expected: %v\n", m, rep.ExpectedByMethod[m])
		if contains := rep.ContainsByMethod[m]; len(contains) > 0 {
			fmt.Fprintf(w, "%s expect_contains: %v\n", m, contains)
		}
	}
	fmt.Fprintf(w, "Filter rows (%s): %d\n", store.FilterQuery, rep.FilterRows)

	for _, warning := range rep.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}
	if strictFlag && len(rep.Warnings) > 0 {
		return fmt.Errorf("validation failed: %d warnings", len(rep.Warnings))
	}

	fmt.Fprintf(w, "Valid: %s\n", path)
	return nil
}
