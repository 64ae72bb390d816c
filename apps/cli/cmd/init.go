package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/config"
	"github.com/abdul-hamid-achik/hitsheet/packages/store"
)

var (
	forceInit      bool
	initConfigFlag bool
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a new test pack",
	Long: `Create a new test pack with the automation, execution log, report and
test case tables and their headers. The format follows the extension:
.xlsx, .db/.sqlite or .yaml.

This creates:
  - the test pack (default TaskManagerAPI_TestPack.xlsx)
  - .hitsheet.yaml - configuration file (with --with-config)

Examples:
  hitsheet init
  hitsheet init pack.yaml
  hitsheet init pack.db --with-config`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&initConfigFlag, "with-config", false, "Also write a .hitsheet.yaml with the current settings")
}

func initCommand(cmd *cobra.Command, args []string) error {
	path := config.DefaultWorkbook
	if len(args) == 1 {
		path = args[0]
	}
	configFile := filepath.Join(filepath.Dir(path), ".hitsheet.yaml")

	targets := []string{path}
	if initConfigFlag {
		targets = append(targets, configFile)
	}
	for _, f := range targets {
		if _, err := os.Stat(f); err == nil {
			if !forceInit {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
			if err := os.Remove(f); err != nil {
				return err
			}
		}
	}

	if err := store.Create(path, settings.Sheets); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)

	if initConfigFlag {
		c := settings.Merge(&config.Config{Workbook: path})
		if err := c.SaveConfig(configFile); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFile)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nGet started:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  hitsheet serve &\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  hitsheet run %s\n", path)
	return nil
}
