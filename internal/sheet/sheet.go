// =============================================================================
// Ledger Extractor - Sheet Access
// =============================================================================
//
// This module materializes the active sheet of an XLSX workbook as rows of
// raw cell values. The extractors address cells with 1-based row and column
// numbers, exactly as the ledger exports are documented:
//
//   | Column A | Column B | Column C | ...
//   | row 1    |          |          |
//   | row 2    |          |          |
//
// NULL CELLS:
//   An empty string is a null cell. Rows and columns beyond the end of the
//   sheet read as null, so lookahead past the last row is always safe.
//
// RESOURCE HANDLING:
//   Open reads every row and closes the workbook before returning; the
//   workbook handle never outlives the call.
//
// =============================================================================

package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SHEET STRUCTURE
// =============================================================================

// Sheet is a read-only, fully materialized worksheet.
type Sheet struct {
	// Name is the worksheet name inside the workbook.
	Name string

	// rows holds raw cell values; rows[0] is row 1.
	rows [][]string
}

// Opener opens a workbook path as a Sheet.
type Opener interface {
	Open(path string) (*Sheet, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (*Sheet, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (*Sheet, error) {
	return f(path)
}

// FileOpener is the Opener backed by excelize.
var FileOpener Opener = OpenerFunc(Open)

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// Open reads the active sheet of the workbook at path.
//
// PARAMETERS:
//   - path: The path to the XLSX workbook.
//
// RETURNS:
//   - The materialized active sheet.
//   - An error if the workbook cannot be opened or read.
func Open(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	// The exports carry a single sheet; the active one is authoritative.
	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		name = f.GetSheetName(0)
	}
	if name == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw values keep numbers free of display formatting ("1 000,00").
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return &Sheet{Name: name, rows: rows}, nil
}

// FromRows builds a Sheet from in-memory values. rows[0] is row 1.
func FromRows(name string, rows [][]string) *Sheet {
	return &Sheet{Name: name, rows: rows}
}

// =============================================================================
// CELL ACCESS
// =============================================================================

// MaxRow returns the number of the last row (0 for an empty sheet).
func (s *Sheet) MaxRow() int {
	return len(s.rows)
}

// Cell returns the raw value at a 1-based position, or "" when the position
// lies outside the sheet.
func (s *Sheet) Cell(row, col int) string {
	if row < 1 || row > len(s.rows) {
		return ""
	}
	cells := s.rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}

// Row returns a view of a single row.
func (s *Sheet) Row(row int) Row {
	return Row{Index: row, sheet: s}
}

// Rows returns the rows from minRow to the last row, in order.
func (s *Sheet) Rows(minRow int) []Row {
	if minRow < 1 {
		minRow = 1
	}
	var out []Row
	for i := minRow; i <= len(s.rows); i++ {
		out = append(out, s.Row(i))
	}
	return out
}

// Row is a positional view into one sheet row.
type Row struct {
	// Index is the 1-based row number.
	Index int

	sheet *Sheet
}

// Cell returns the raw value in a 1-based column.
func (r Row) Cell(col int) string {
	return r.sheet.Cell(r.Index, col)
}

// Has reports whether the cell in a 1-based column is non-null.
func (r Row) Has(col int) bool {
	return r.Cell(col) != ""
}
