// =============================================================================
// Ledger Extractor - Converter Module
// =============================================================================
//
// This module contains the per-file pipeline. It takes one input path from
// classification to a list of normalized records.
//
// CONVERSION PIPELINE:
//   1. Classify the path (no I/O; lock files and unknown ledgers stop here)
//   2. Open the workbook and materialize the active sheet
//   3. Resolve the quarter and scan the rows with the layout's extractor
//   4. Check cashflow balances (warnings only)
//
// ALL-OR-NOTHING:
//   A failure at any step leaves Result.Records empty. A file is never
//   reported with part of its records.
//
// CONCURRENCY:
//   A Converter holds no per-file state and may be shared by goroutines.
//
// =============================================================================

package converter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ginjaninja78/ledgerx/internal/extract"
	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
	"github.com/ginjaninja78/ledgerx/internal/validation"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// Layout is the layout the file was classified as.
	// Unknown if classification failed.
	Layout layout.Layout

	// Kind is the record kind of Records.
	Kind types.RecordKind

	// Records holds every record of the file. Empty on failure.
	Records []types.Record

	// Warnings lists cashflow records whose balances do not add up.
	Warnings []*validation.BalanceWarning

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	// This is nil if processing was successful.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsScanned is the number of rows in the sheet.
	RowsScanned int

	// RecordsEmitted is the number of records extracted.
	RecordsEmitted int

	// BalanceWarnings is the number of balance warnings.
	BalanceWarnings int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options controls optional pipeline steps.
type Options struct {
	// CheckBalances enables the cashflow balance check.
	CheckBalances bool
}

// Converter runs the per-file pipeline.
type Converter struct {
	classifier *layout.Classifier
	opener     sheet.Opener
	logger     *slog.Logger
	options    Options
}

// New creates a new Converter.
//
// PARAMETERS:
//   - classifier: Decides the layout of each path.
//   - opener: Materializes workbooks; sheet.FileOpener in production.
//   - logger: Structured logger.
//   - options: Optional pipeline steps.
func New(classifier *layout.Classifier, opener sheet.Opener, logger *slog.Logger, options Options) *Converter {
	return &Converter{
		classifier: classifier,
		opener:     opener,
		logger:     logger,
		options:    options,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Extract runs the pipeline for one file and returns its records. Errors keep
// their specific kind (see types.KindOf).
func (c *Converter) Extract(path string) ([]types.Record, error) {
	result := c.Run(path)
	if !result.Success {
		return nil, result.Error
	}
	return result.Records, nil
}

// Run executes the conversion pipeline for one file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run(path string) Result {
	startTime := time.Now()
	result := Result{
		FilePath: path,
		Success:  false,
	}
	logger := c.logger.With(slog.String("file", path))

	// =========================================================================
	// STEP 1: CLASSIFY
	// =========================================================================
	// Decided from the path alone, before any workbook is opened.

	desc, err := c.classifier.Classify(path)
	if err != nil {
		result.Error = err
		return c.fail(logger, result, startTime)
	}
	result.Layout = desc.Layout
	result.Kind = desc.Kind
	logger = logger.With(slog.String("layout", desc.Layout.String()))

	extractor, err := extract.For(desc)
	if err != nil {
		result.Error = err
		return c.fail(logger, result, startTime)
	}

	// =========================================================================
	// STEP 2: OPEN
	// =========================================================================

	s, err := c.opener.Open(path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read %s: %w", path, err)
		return c.fail(logger, result, startTime)
	}
	result.Stats.RowsScanned = s.MaxRow()
	logger.Debug("sheet loaded", slog.String("sheet", s.Name), slog.Int("rows", s.MaxRow()))

	// =========================================================================
	// STEP 3: EXTRACT
	// =========================================================================

	records, err := extractor.Extract(path, s)
	if err != nil {
		result.Error = err
		return c.fail(logger, result, startTime)
	}
	result.Records = records
	result.Stats.RecordsEmitted = len(records)

	// =========================================================================
	// STEP 4: CHECK BALANCES
	// =========================================================================

	if c.options.CheckBalances && desc.Kind == types.KindCashflow {
		result.Warnings = validation.CheckBalances(records)
		result.Stats.BalanceWarnings = len(result.Warnings)
		for _, w := range result.Warnings {
			logger.Warn("balance mismatch", slog.String("detail", w.Error()))
		}
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	logger.Info("file extracted",
		slog.Int("records", len(records)),
		slog.Int("balance_warnings", result.Stats.BalanceWarnings),
		slog.Duration("elapsed", result.Stats.ProcessingTime))

	return result
}

// fail logs a failed result and returns it with the elapsed time set.
func (c *Converter) fail(logger *slog.Logger, result Result, startTime time.Time) Result {
	result.Records = nil
	result.Stats.ProcessingTime = time.Since(startTime)
	logger.Error("file skipped",
		slog.String("kind", ErrorKindName(result.Error)),
		slog.String("error", result.Error.Error()))
	return result
}

// ErrorKindName returns the error kind for reports; "IOError" for failures
// outside the ledger error kinds.
func ErrorKindName(err error) string {
	if kind := types.KindOf(err); kind != 0 {
		return kind.String()
	}
	return "IOError"
}
