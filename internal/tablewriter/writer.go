// =============================================================================
// Ledger Extractor - Table Writer Module
// =============================================================================
//
// This module serializes aggregated datasets. Two formats are supported:
//
//   CSV  : delimiter and character encoding are configurable. Windows-1251
//          output opens correctly in spreadsheet editors that assume the
//          Cyrillic ANSI code page.
//   XLSX : a single sheet named after the record kind; numeric columns are
//          written as numbers.
//
// EXAMPLE (cashflow, CSV):
//
//   Quarter,Category,Code,Name,Measure,Start Amount,...
//   20242,101,C1,Станок,шт,10,...
//
// =============================================================================

package tablewriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/ledgerx/internal/converter"
)

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// Options contains options for dataset serialization.
type Options struct {
	// Format is "csv" or "xlsx".
	// Default: "csv"
	Format string

	// Delimiter is the CSV field separator. "\t" and "\\t" both mean tab.
	// Default: ","
	Delimiter string

	// Encoding is "utf-8" or "windows-1251".
	// Default: "utf-8"
	Encoding string
}

// DefaultOptions returns the default write options.
func DefaultOptions() Options {
	return Options{
		Format:    "csv",
		Delimiter: ",",
		Encoding:  "utf-8",
	}
}

// Ext returns the file extension of the configured format.
func (o Options) Ext() string {
	if strings.EqualFold(o.Format, "xlsx") {
		return ".xlsx"
	}
	return ".csv"
}

// =============================================================================
// WRITE FUNCTIONS
// =============================================================================

// WriteFile writes a dataset to path in the configured format.
//
// PARAMETERS:
//   - path: The output file path.
//   - ds: The aggregated dataset.
//   - opts: The write options.
//
// RETURNS:
//   - An error if the file cannot be created or written.
func WriteFile(path string, ds *converter.Dataset, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if strings.EqualFold(opts.Format, "xlsx") {
		return WriteXLSX(path, ds)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, ds.Rows, opts); err != nil {
		return err
	}
	return file.Close()
}

// WriteCSV writes rows as delimited text.
func WriteCSV(w io.Writer, rows [][]string, opts Options) error {
	enc, err := encoderFor(opts.Encoding)
	if err != nil {
		return err
	}

	out := w
	var tw *transform.Writer
	if enc != nil {
		tw = transform.NewWriter(w, encoding.ReplaceUnsupported(enc.NewEncoder()))
		out = tw
	}

	cw := csv.NewWriter(out)
	cw.Comma = delimiterRune(opts.Delimiter)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	if tw != nil {
		if err := tw.Close(); err != nil {
			return fmt.Errorf("failed to flush encoded output: %w", err)
		}
	}
	return nil
}

// WriteXLSX writes a dataset to a new workbook with one sheet.
func WriteXLSX(path string, ds *converter.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := ds.Kind.String()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	numeric := make(map[int]bool)
	for _, col := range ds.Kind.NumericColumns() {
		numeric[col] = true
	}

	for i, row := range ds.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if ds.HasHeader && i == 0 {
				continue
			}
			if numeric[j] {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[j] = n
				}
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// encoderFor returns the charmap for a non-UTF-8 encoding, or nil for UTF-8.
func encoderFor(name string) (*charmap.Charmap, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251, nil
	default:
		return nil, fmt.Errorf("unsupported output encoding: %s", name)
	}
}

// delimiterRune converts the configured delimiter to a rune.
func delimiterRune(d string) rune {
	switch d {
	case "", ",":
		return ','
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	default:
		return []rune(d)[0]
	}
}
