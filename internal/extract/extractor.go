// =============================================================================
// Ledger Extractor - Record Extraction
// =============================================================================
//
// This package turns a materialized sheet into normalized records. There is
// one scanner per physical layout; all of them share the same contract:
//
//   records, err := extractor.Extract(path, sheet)
//
// EXTRACTION IS ALL-OR-NOTHING:
//   An extractor returns either every record of the sheet or nil and an
//   error. A malformed cell halfway down the sheet never yields a truncated
//   record list.
//
// SCANNING MODEL:
//   Each scanner is a small state machine (see scanner.go). Every visited row
//   is classified as a category sentinel, an asset row, or a row to skip;
//   sentinels move the scanner into a new category, asset rows emit a record
//   tagged with the current category.
//
// =============================================================================

package extract

import (
	"fmt"

	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// Extractor reads the records of one layout from a sheet.
type Extractor interface {
	// Extract scans the sheet of the file at path. The path is needed by
	// layouts that take their period from the file name.
	Extract(path string, s *sheet.Sheet) ([]types.Record, error)
}

// For returns the extractor of a layout.
//
// PARAMETERS:
//   - d: The layout descriptor chosen by the classifier.
//
// RETURNS:
//   - The extractor bound to the descriptor.
//   - An error if the layout has no extractor.
func For(d *layout.Descriptor) (Extractor, error) {
	if d == nil {
		return nil, fmt.Errorf("no layout descriptor")
	}

	switch d.Layout {
	case layout.Turnover105:
		return &Turnover105{d: d}, nil
	case layout.Turnover21_101, layout.Turnover21_101Q1:
		return &Turnover21{d: d}, nil
	case layout.Stock105, layout.Stock21_101:
		return &Stock{d: d}, nil
	case layout.Catalog:
		return &Catalog{d: d}, nil
	default:
		return nil, fmt.Errorf("no extractor for layout %s", d.Layout)
	}
}
