// =============================================================================
// Ledger Extractor - Quarter Resolver
// =============================================================================
//
// This module derives the reporting quarter of a document. Two strategies are
// used, selected by the layout descriptor:
//
//   HEADER CELL (turnover layouts):
//     The header sentence is split on whitespace and the quarter number and
//     year are read at fixed word positions. When the words at those
//     positions are not a quarter number and a year, the sentence is searched
//     for "<n> квартал <yyyy>" instead.
//
//   FILE NAME (stock-balance layouts):
//     The base name carries a DD.MM.YYYY date; the quarter number is
//     (month-1)/3 + 1.
//
// =============================================================================

package quarter

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

var (
	// fileDate matches a DD.MM.YYYY date inside a file name.
	fileDate = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)

	// quarterPhrase matches "2 квартал 2024" and its inflections.
	quarterPhrase = regexp.MustCompile(`(?i)\b(\d)\s*(?:-?й\s+)?квартал\S*\s+(\d{4})`)
)

// =============================================================================
// RESOLVER
// =============================================================================

// Resolve returns the quarter of a document according to its descriptor.
//
// PARAMETERS:
//   - d: The layout descriptor.
//   - path: The input file path (used by the file name strategy).
//   - s: The materialized sheet (used by the header cell strategy).
//
// RETURNS:
//   - The quarter, or zero for layouts without a period.
//   - A *types.LedgerError of kind MissingPeriod.
func Resolve(d *layout.Descriptor, path string, s *sheet.Sheet) (types.Quarter, error) {
	switch d.Period {
	case layout.PeriodHeaderCell:
		text := s.Cell(d.Header.Row, d.Header.Col)
		q, ok := FromHeader(text, d.Header.QuarterWord, d.Header.YearWord)
		if !ok {
			return 0, types.NewCellError(types.MissingPeriod, path, d.Header.Row, d.Header.Col,
				"no quarter in header %q", text)
		}
		return q, nil

	case layout.PeriodFileName:
		q, ok := FromFileName(path)
		if !ok {
			return 0, types.NewError(types.MissingPeriod, path, "no DD.MM.YYYY date in file name")
		}
		return q, nil

	default:
		return 0, nil
	}
}

// FromHeader reads the quarter from a header sentence.
// Negative word positions count from the end of the sentence.
func FromHeader(text string, quarterWord, yearWord int) (types.Quarter, bool) {
	words := strings.Fields(text)

	number, okNumber := wordInt(words, quarterWord)
	year, okYear := wordInt(words, yearWord)
	if okNumber && okYear && valid(year, number) {
		return types.NewQuarter(year, number), true
	}

	m := quarterPhrase.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	number, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if !valid(year, number) {
		return 0, false
	}
	return types.NewQuarter(year, number), true
}

// FromFileName reads the quarter from the first DD.MM.YYYY date in the base
// name of path.
func FromFileName(path string) (types.Quarter, bool) {
	m := fileDate.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return 0, false
	}
	return types.NewQuarter(year, (month-1)/3+1), true
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// wordInt parses the word at position i as an integer.
func wordInt(words []string, i int) (int, bool) {
	if i < 0 {
		i += len(words)
	}
	if i < 0 || i >= len(words) {
		return 0, false
	}
	n, err := strconv.Atoi(words[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func valid(year, number int) bool {
	return number >= 1 && number <= 4 && year >= 1000 && year <= 9999
}
