package extract

import (
	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/quarter"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// Turnover105 scans the 105 turnover ledger: one row per asset.
//
//   | A  | B                 | C    | D      | E  | F..M               |
//   |----|-------------------|------|--------|----|--------------------|
//   |    | 101 - Машины      |      |        |    |                    |  <- sentinel
//   | 5  |                   | C1   | Станок | шт | 10 1000 2 200 ...  |  <- asset
//   |    |                   |      |        |    | (totals)           |  <- skipped
//
// A row with an id in column A is an asset. Otherwise a value in column B is
// a category sentinel; the category is the text left of the dash. Rows are
// visited strictly in order.
type Turnover105 struct {
	d *layout.Descriptor
}

// Extract implements Extractor.
func (e *Turnover105) Extract(path string, s *sheet.Sheet) ([]types.Record, error) {
	q, err := quarter.Resolve(e.d, path, s)
	if err != nil {
		return nil, err
	}

	var (
		sc      scanner
		records []types.Record
	)

	for _, row := range s.Rows(e.d.StartRow) {
		b := newBlock(path, s, e.d, row.Index)

		switch e.classify(b) {
		case actionAsset:
			rec := types.CashflowRecord{
				Quarter:       q,
				Category:      sc.current(),
				Code:          b.cell(layout.FieldCode),
				Name:          b.cell(layout.FieldName),
				Measure:       b.cell(layout.FieldMeasure),
				StartAmount:   b.number(layout.FieldStartAmount),
				StartCost:     b.number(layout.FieldStartCost),
				FlowInAmount:  b.number(layout.FieldFlowInAmount),
				FlowInCost:    b.number(layout.FieldFlowInCost),
				FlowOutAmount: b.number(layout.FieldFlowOutAmount),
				FlowOutCost:   b.number(layout.FieldFlowOutCost),
				EndAmount:     b.number(layout.FieldEndAmount),
				EndCost:       b.number(layout.FieldEndCost),
			}
			if b.err != nil {
				return nil, b.err
			}
			records = append(records, rec)

		case actionSentinel:
			sc.enter(categoryText(b.cell(layout.FieldCategory), e.d.CategorySeparator))
		}
	}

	return records, nil
}

// classify gives the id column precedence over column B.
func (e *Turnover105) classify(b *block) rowAction {
	switch {
	case b.has(layout.FieldID):
		return actionAsset
	case b.has(layout.FieldCategory):
		return actionSentinel
	default:
		return actionSkip
	}
}
