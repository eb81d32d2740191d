// =============================================================================
// Ledger Extractor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ledgerx)
//   ├── extractCmd  (ledgerx extract)
//   ├── classifyCmd (ledgerx classify)
//   └── versionCmd  (ledgerx version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose) and the
//   shared setup: loading the configuration and building the logger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledgerx/internal/config"
	"github.com/ginjaninja78/ledgerx/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerx",
	Short: "Ledger Extractor - Normalize accounting spreadsheet exports into flat datasets",
	Long: `Ledger Extractor reads accounting workbooks exported from a bookkeeping
system and produces flat, homogeneous datasets:

  cashflow : quarterly turnover statements (accounts 105, 21 and 101)
  stock    : point-in-time stock balances
  catalog  : the reference catalog of asset names and classification codes

The layout of each workbook is recognized from its path, the reporting quarter
is read from the sheet header or the file name, and category context is
carried from sentinel rows onto the asset rows below them.

Example Usage:
  ledgerx extract                          # Extract every configured input
  ledgerx extract ./data/raw --out ./out   # Extract a directory
  ledgerx classify ./data/raw              # Show how each file is recognized`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config: a missing file at the default location falls back to the
	// defaults; an explicitly given file must exist.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig loads the configuration named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(cfgFile, required)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the run logger. Logs go to stderr so that stdout stays
// readable.
func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stderr, logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Verbose: verbose,
	})
}
