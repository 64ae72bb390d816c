package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

var listCmd = &cobra.Command{
	Use:   "list [workbook]",
	Short: "List the cases of a test pack",
	Long: `List the cases of a test pack's automation table in run order.

Examples:
  hitsheet list
  hitsheet list pack.db`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	path := workbookArg(args)
	wb, err := store.Open(path, settings.Sheets)
	if err != nil {
		return err
	}
	defer wb.Close()

	specs, err := wb.TestCases()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", path)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, s := range specs {
		fmt.Fprintf(tw, "  %02d\t%s\t%s\t%s\texpect %s", s.Seq, s.ID, s.Method, s.URL, s.Expect.String())
		if s.SaveAs != "" {
			fmt.Fprintf(tw, "\tsave_as=%s", s.SaveAs)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if total, ok, err := wb.TotalCases(); err == nil && ok {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d automated cases, %d in catalogue\n", len(specs), total)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d automated cases\n", len(specs))
	}
	return nil
}
