package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abdul-hamid-achik/hitsheet/packages/core/config"
	"github.com/abdul-hamid-achik/hitsheet/packages/core/env"

	// Test pack backends.
	_ "github.com/abdul-hamid-achik/hitsheet/packages/store/sqlite"
	_ "github.com/abdul-hamid-achik/hitsheet/packages/store/xlsx"
	_ "github.com/abdul-hamid-achik/hitsheet/packages/store/yamlpack"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// DefaultEnvFile is loaded when present and no env file is named.
const DefaultEnvFile = ".env"

var (
	configFlag  string
	envFileFlag string
	verboseFlag bool
	noColorFlag bool

	logger   *zap.Logger
	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hitsheet",
	Short: "Spreadsheet-driven API tests.",
	Long: `hitsheet runs HTTP API test cases kept in a test pack (an Excel
workbook, a SQLite database or a YAML file), judges every response,
and writes the execution log and report back into the same pack.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: HITSHEET_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Path to .env file exported before reading the environment (env: HITSHEET_ENV_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output and debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: HITSHEET_NO_COLOR)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup builds the logger and resolves settings from defaults, the config
// file and the environment. Command flags are applied by each command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	logger, err = newLogger(verboseFlag)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	if err := loadEnvFile(); err != nil {
		return withExitCode(ExitConfigError, err)
	}

	path := configFlag
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	fileConfig, err := config.LoadConfig(path)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	envConfig, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	settings = fileConfig.Merge(envConfig)
	if cmd.Flags().Changed("no-color") {
		settings.NoColor = config.BoolPtr(noColorFlag)
	}

	logger.Debug("Configuration resolved",
		zap.String("base_url", settings.BaseURL),
		zap.String("workbook", settings.Workbook),
		zap.String("results_dir", settings.ResultsDir),
		zap.String("executor", settings.Executor),
		zap.Int("timeout_ms", settings.Timeout))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// loadEnvFile exports the named .env file, or ./.env when it exists.
// Variables already set in the environment are left alone.
func loadEnvFile() error {
	path := envFileFlag
	if path == "" {
		path = os.Getenv(config.EnvEnvFile)
	}
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); errors.Is(err, os.ErrNotExist) {
			return nil
		}
		path = DefaultEnvFile
	}

	vars, err := env.LoadAndExportDotEnv(path)
	if err != nil {
		return err
	}
	logger.Debug("Loaded env file", zap.String("path", path), zap.Int("vars", len(vars)))
	return nil
}
