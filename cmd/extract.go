// =============================================================================
// Ledger Extractor - Extract Command
// =============================================================================
//
// This file defines the 'extract' command, which runs the whole pipeline over
// a set of workbooks and writes one dataset per record kind.
//
// COMMAND USAGE:
//   ledgerx extract [paths...] [flags]
//
// FLAGS:
//   --out          : Output directory (overrides output_dir)
//   --format       : csv or xlsx (overrides output_format)
//   --no-header    : Omit the header row from every dataset
//   --concurrency  : Maximum number of files extracted at once
//   --dry-run      : Extract and report without writing any file
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover input workbooks (arguments, or input_dirs plus catalog_file)
//   3. Extract every file (bounded concurrency, input order preserved)
//   4. Aggregate records into one dataset per kind
//   5. Write datasets and the run summary
//
// A file that fails is reported and skipped; it never aborts the run.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledgerx/internal/config"
	"github.com/ginjaninja78/ledgerx/internal/converter"
	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/tablewriter"
	"github.com/ginjaninja78/ledgerx/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// extractFlags holds the command-line overrides of the extract command.
type extractFlags struct {
	outDir      string
	format      string
	noHeader    bool
	concurrency int
	dryRun      bool
}

var extractOpts extractFlags

// =============================================================================
// EXTRACT COMMAND DEFINITION
// =============================================================================

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract cashflow, stock and catalog datasets from workbooks",
	Long: `The extract command reads every given workbook (directories are scanned
for .xlsx files) and writes the records of all successful files into one
dataset per record kind: cashflow, stock and catalog.

Without arguments the input_dirs and catalog_file of the configuration are
used.

Files that cannot be classified or parsed are listed with their error kind
and skipped. The remaining files are still extracted.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyExtractFlags(cmd, cfg, extractOpts)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		return runExtract(cmd.Context(), cmd.OutOrStdout(), cfg, args, extractOpts.dryRun, uuid.New().String(), newLogger(cfg))
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractOpts.outDir, "out", "", "Output directory (overrides output_dir)")
	extractCmd.Flags().StringVar(&extractOpts.format, "format", "", "Output format: csv or xlsx (overrides output_format)")
	extractCmd.Flags().BoolVar(&extractOpts.noHeader, "no-header", false, "Omit the header row from every dataset")
	extractCmd.Flags().IntVar(&extractOpts.concurrency, "concurrency", 0, "Maximum number of files extracted at once (overrides max_concurrency)")
	extractCmd.Flags().BoolVar(&extractOpts.dryRun, "dry-run", false, "Extract and report without writing output files")
}

// applyExtractFlags copies the explicitly set flags onto the configuration.
func applyExtractFlags(cmd *cobra.Command, cfg *config.Config, flags extractFlags) {
	if flags.outDir != "" {
		cfg.OutputDir = flags.outDir
	}
	if flags.format != "" {
		cfg.OutputFormat = flags.format
	}
	if flags.noHeader {
		noHeader := false
		cfg.IncludeHeader = &noHeader
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.MaxConcurrency = flags.concurrency
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runExtract orchestrates one extraction run.
//
// PARAMETERS:
//   - ctx: Cancels the files not yet started.
//   - out: Receives the human-readable progress report.
//   - cfg: The validated configuration.
//   - args: Files or directories; empty means the configured inputs.
//   - dryRun: Skip writing datasets and the summary.
//   - runID: Identifies the run in logs and the summary.
//   - logger: The base logger.
func runExtract(ctx context.Context, out io.Writer, cfg *config.Config, args []string, dryRun bool, runID string, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()
	logger = logger.With(slog.String("run_id", runID))

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	fmt.Fprintln(out, "=== Ledger Extractor ===")

	inputs := defaultInputs(cfg, args)
	if len(inputs) == 0 {
		fmt.Fprintln(out, "No inputs given and none configured.")
		return nil
	}

	files, err := utils.DiscoverInputFiles(inputs, *cfg.Recursive)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No .xlsx files found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d file(s) to extract\n", len(files))
	logger.Info("inputs discovered", slog.Int("files", len(files)))

	// =========================================================================
	// STEP 2: EXTRACT
	// =========================================================================

	classifier := layout.NewClassifier(cfg.StockMarker, cfg.CatalogFile)
	conv := converter.New(classifier, sheet.FileOpener, logger, converter.Options{
		CheckBalances: *cfg.CheckBalances,
	})
	results := converter.NewBatch(conv, cfg.MaxConcurrency, logger).Run(ctx, files)

	summary := utils.RunSummary{
		RunID:      runID,
		StartTime:  startTime,
		TotalFiles: len(files),
	}
	for _, r := range results {
		report(out, r, &summary)
	}

	// =========================================================================
	// STEP 3: AGGREGATE AND WRITE
	// =========================================================================

	datasets := converter.AggregateAll(results, *cfg.IncludeHeader)

	if dryRun {
		for _, ds := range datasets {
			fmt.Fprintf(out, "  [dry-run] %s: %d record(s) from %d file(s)\n", ds.Kind, ds.Records(), ds.Files)
		}
	} else if err := writeOutputs(out, cfg, datasets, &summary, logger); err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	summary.EndTime = time.Now()
	fmt.Fprintln(out, "\n=== Extraction Complete ===")
	fmt.Fprintf(out, "Total files:      %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:       %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Skipped:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Records:          %d\n", summary.TotalRecords)
	fmt.Fprintf(out, "Balance warnings: %d\n", summary.BalanceWarnings)
	fmt.Fprintf(out, "Time elapsed:     %s\n", summary.EndTime.Sub(startTime))

	if !dryRun && *cfg.SummaryLog {
		path, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary written to %s\n", path)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// defaultInputs returns args, or the configured input directories plus the
// catalog workbook when it exists.
func defaultInputs(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	inputs := append([]string{}, cfg.InputDirs...)
	if cfg.CatalogFile != "" && utils.FileExists(cfg.CatalogFile) {
		inputs = append(inputs, cfg.CatalogFile)
	}
	return inputs
}

// report prints one result line and records it in the summary.
func report(out io.Writer, r converter.Result, summary *utils.RunSummary) {
	name := filepath.Base(r.FilePath)

	if !r.Success {
		kind := converter.ErrorKindName(r.Error)
		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    r.FilePath,
			ErrorType:    kind,
			ErrorMessage: r.Error.Error(),
		})
		fmt.Fprintf(out, "  ✗ %s [%s]: %v\n", name, kind, r.Error)
		return
	}

	warnings := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		warnings = append(warnings, w.Error())
	}

	summary.SuccessfulFiles++
	summary.TotalRecords += len(r.Records)
	summary.BalanceWarnings += len(r.Warnings)
	summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
		InputFile:   r.FilePath,
		Layout:      r.Layout.String(),
		Records:     len(r.Records),
		Warnings:    warnings,
		ProcessTime: r.Stats.ProcessingTime,
	})
	fmt.Fprintf(out, "  ✓ %s -> %s (%d record(s))\n", name, r.Kind, len(r.Records))
}

// writeOutputs writes every dataset into the output directory.
func writeOutputs(out io.Writer, cfg *config.Config, datasets []*converter.Dataset, summary *utils.RunSummary, logger *slog.Logger) error {
	if err := utils.EnsureDirectories(cfg.OutputDir); err != nil {
		return err
	}

	opts := tablewriter.Options{
		Format:    cfg.OutputFormat,
		Delimiter: cfg.Delimiter,
		Encoding:  cfg.OutputEncoding,
	}

	for _, ds := range datasets {
		name := utils.GenerateOutputFileName(cfg.FileNameFormat, map[string]string{"kind": ds.Kind.String()}, opts.Ext())
		path := filepath.Join(cfg.OutputDir, name)

		if err := tablewriter.WriteFile(path, ds, opts); err != nil {
			return fmt.Errorf("failed to write %s dataset: %w", ds.Kind, err)
		}

		summary.Outputs = append(summary.Outputs, path)
		logger.Info("dataset written",
			slog.String("kind", ds.Kind.String()),
			slog.String("path", path),
			slog.Int("records", ds.Records()))
		fmt.Fprintf(out, "  %s: %d record(s) -> %s\n", ds.Kind, ds.Records(), path)
	}

	return nil
}
