// =============================================================================
// Ledger Extractor - Layout Classifier
// =============================================================================
//
// This module decides which layout applies to an input file by looking at
// the path alone. No workbook is opened here: files the system cannot parse
// are rejected before any I/O happens.
//
// DECISION ORDER:
//   1. Not an .xlsx path, or a "~$" lock file         -> InvalidPath
//   2. Base name equals the configured catalog file   -> catalog
//   3. Path token "105"                               -> 105 layouts
//   4. Path token "21" or "101"                       -> 21/101 layouts
//   5. Anything else                                  -> UnrecognizedLedger
//
//   Steps 3 and 4 pick the stock-balance variant when a directory or the file
//   name starts with the stock marker, and the first-quarter turnover variant
//   when the file name reads "... 21 за 1 ...".
//
// =============================================================================

package layout

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/ginjaninja78/ledgerx/internal/types"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultStockMarker starts the directory or file name of stock exports.
	DefaultStockMarker = "Остатки"

	// DefaultCatalogFile is the base name of the reference catalog.
	DefaultCatalogFile = "Справочник.xlsx"

	// workbookExt is the only accepted extension.
	workbookExt = ".xlsx"

	// lockPrefix starts the lock files spreadsheet editors leave behind.
	lockPrefix = "~$"
)

// firstQuarter21 matches the file names of the first-quarter 21 export.
var firstQuarter21 = regexp.MustCompile(`(?:^|\s)21\s+за\s+1(?:\s|$)`)

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier maps input paths to layout descriptors.
type Classifier struct {
	// StockMarker is the prefix of a directory or file name that holds
	// stock-balance exports.
	StockMarker string

	// CatalogFile is the base name of the reference catalog workbook.
	CatalogFile string
}

// NewClassifier creates a Classifier. Empty arguments fall back to defaults.
func NewClassifier(stockMarker, catalogFile string) *Classifier {
	if stockMarker == "" {
		stockMarker = DefaultStockMarker
	}
	if catalogFile == "" {
		catalogFile = DefaultCatalogFile
	}
	return &Classifier{
		StockMarker: stockMarker,
		CatalogFile: filepath.Base(catalogFile),
	}
}

// Classify returns the descriptor of the layout the path belongs to.
//
// PARAMETERS:
//   - path: The input file path. Its text is part of the contract.
//
// RETURNS:
//   - The descriptor of the matching layout.
//   - A *types.LedgerError of kind InvalidPath or UnrecognizedLedger.
func (c *Classifier) Classify(path string) (*Descriptor, error) {
	dirs, base := splitPath(path)

	if strings.HasPrefix(base, lockPrefix) {
		return nil, types.NewError(types.InvalidPath, path, "spreadsheet lock file")
	}
	if !strings.HasSuffix(strings.ToLower(base), workbookExt) {
		return nil, types.NewError(types.InvalidPath, path, "not an %s workbook", workbookExt)
	}

	if strings.EqualFold(base, c.CatalogFile) {
		return Describe(Catalog), nil
	}

	stem := base[:len(base)-len(workbookExt)]
	components := append(append([]string{}, dirs...), stem)
	tokens := tokenize(components)
	stock := c.isStockPath(components)

	switch {
	case tokens["105"]:
		if stock {
			return Describe(Stock105), nil
		}
		return Describe(Turnover105), nil

	case tokens["21"] || tokens["101"]:
		if stock {
			return Describe(Stock21_101), nil
		}
		if firstQuarter21.MatchString(stem) {
			return Describe(Turnover21_101Q1), nil
		}
		return Describe(Turnover21_101), nil
	}

	return nil, types.NewError(types.UnrecognizedLedger, path, "no ledger number (105, 21, 101) in path")
}

// isStockPath reports whether any directory or the file name starts with
// the stock marker.
func (c *Classifier) isStockPath(components []string) bool {
	marker := strings.ToLower(c.StockMarker)
	for _, part := range components {
		if strings.HasPrefix(strings.ToLower(part), marker) {
			return true
		}
	}
	return false
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// splitPath returns the directory components and the base name of a path.
// Both separators are accepted so Windows paths classify the same anywhere.
func splitPath(path string) ([]string, string) {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return nil, ""
	}
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// tokenize splits path components into a set of word tokens.
// Dots are kept so dates ("30.06.2024") and account codes ("105.34") stay
// whole and never collide with a bare ledger number.
func tokenize(parts []string) map[string]bool {
	tokens := make(map[string]bool)
	for _, part := range parts {
		words := strings.FieldsFunc(part, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune("_-(),", r)
		})
		for _, w := range words {
			tokens[w] = true
		}
	}
	return tokens
}
