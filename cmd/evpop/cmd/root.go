package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/evpop/internal/config"
	"github.com/dbsmedya/evpop/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	envFile   string
	dataPath  string
	outputDir string
	noCharts  bool
	topN      int
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "evpop",
	Short: "Electric Vehicle Population exploratory analysis",
	Long: `A CLI for exploring the Washington State Electric Vehicle Population
dataset: missing-value reports and strategies, feature encoding,
normalization, descriptive statistics, correlations and charts.

Features:
  - Interactive numbered menu or non-interactive step runs
  - CSV, TSV and XLSX input
  - PNG charts and CSV/XLSX artifacts
  - Optional export of result tables to MySQL`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "evpop.yaml",
		"Path to configuration file (defaults are used when the default file is absent)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"Optional file of KEY=VALUE pairs loaded before the config")

	// Dataset and output overrides
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "",
		"Override dataset path")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "",
		"Override directory for artifacts and charts")
	rootCmd.PersistentFlags().BoolVar(&noCharts, "no-charts", false,
		"Do not render charts")
	rootCmd.PersistentFlags().IntVar(&topN, "top-n", 0,
		"Override the number of groups shown by top-N charts")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	return config.Overrides{
		DataPath:  dataPath,
		OutputDir: outputDir,
		NoCharts:  noCharts,
		TopN:      topN,
		LogLevel:  logLevel,
		LogFormat: logFormat,
	}
}

// loadConfig reads the env file and configuration, applies CLI overrides and
// validates the result. The config file is optional unless named with
// --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	explicit := cmd.Flags().Changed("config")
	cfg, err := config.LoadOrDefault(GetConfigFile(), explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
