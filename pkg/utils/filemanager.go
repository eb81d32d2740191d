// =============================================================================
// Ledger Extractor - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the extractor:
//   - Input discovery across several directories
//   - Directory management
//   - Output file naming
//   - Run summary generation
//
// DISCOVERY:
//   Every *.xlsx file is returned, including "~$" lock files left behind by
//   spreadsheet editors. The classifier rejects those, so they show up in the
//   run summary as skipped instead of silently disappearing.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkbookExt is the extension of every accepted input file.
const WorkbookExt = ".xlsx"

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all given directories if they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles expands a list of files and directories into workbook
// paths.
//
// PARAMETERS:
//   - inputs: Files are kept as given; directories are scanned for *.xlsx.
//   - recursive: Whether directory scans descend into subdirectories.
//
// RETURNS:
//   - The paths, each directory's matches sorted, duplicates removed, in the
//     order the inputs were given.
//   - An error if an input does not exist or a directory cannot be read.
func DiscoverInputFiles(inputs []string, recursive bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("failed to access input %s: %w", input, err)
		}

		if !info.IsDir() {
			add(input)
			continue
		}

		found, err := scanDirectory(input, recursive)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}

// scanDirectory returns the sorted workbook paths under dir.
func scanDirectory(dir string, recursive bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(strings.ToLower(d.Name()), WorkbookExt) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName builds an output file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {kind}      - Record kind (cashflow, stock, catalog)
//   - params: A map of placeholder values.
//   - ext: The extension to enforce, e.g. ".csv".
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "{kind}_{date}"
//   params: {"kind": "cashflow"}
//   ext:    ".csv"
//   output: "cashflow_20240115.csv"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about an extraction run.
type RunSummary struct {
	RunID           string
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRecords    int
	BalanceWarnings int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
	Outputs         []string
}

// ProcessedFileInfo contains information about a successfully extracted file.
type ProcessedFileInfo struct {
	InputFile   string
	Layout      string
	Records     int
	Warnings    []string
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a skipped file.
type FailedFileInfo struct {
	InputFile    string
	ErrorType    string
	ErrorMessage string
}

// WriteSummaryLog writes a run summary to a text file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	timestamp := summary.StartTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("extraction_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	writeSummary(writer, summary)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// writeSummary renders the summary body.
func writeSummary(w *bufio.Writer, summary RunSummary) {
	const rule = "================================================================================\n"
	const thin = "--------------------------------------------------------------------------------\n"

	fmt.Fprintf(w, "Ledger Extractor - Run Summary\n"+rule+"\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:      %d\n"+
		"  Successful:       %d\n"+
		"  Skipped:          %d\n"+
		"  Total Records:    %d\n"+
		"  Balance Warnings: %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRecords,
		summary.BalanceWarnings)

	if len(summary.Outputs) > 0 {
		w.WriteString("Outputs:\n" + thin)
		for _, out := range summary.Outputs {
			fmt.Fprintf(w, "  %s\n", out)
		}
		w.WriteString("\n")
	}

	if len(summary.ProcessedFiles) > 0 {
		w.WriteString("Extracted Files:\n" + thin)
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(w, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(w, "  Layout:       %s\n", pf.Layout)
			fmt.Fprintf(w, "  Records:      %d\n", pf.Records)
			for _, warning := range pf.Warnings {
				fmt.Fprintf(w, "  Warning:      %s\n", warning)
			}
			fmt.Fprintf(w, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		w.WriteString("Skipped Files:\n" + thin)
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(w, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(w, "  Kind:  %s\n", ff.ErrorType)
			fmt.Fprintf(w, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	w.WriteString(rule + "End of Summary\n")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
