package extract

import (
	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/quarter"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// Stock scans a stock-balance snapshot: one row per asset, closing balance
// only. Both sub-variants share the algorithm and differ in their
// descriptors:
//
//   | Variant | Sentinel                           | Category          | Name | Amount | Cost |
//   |---------|------------------------------------|-------------------|------|--------|------|
//   | 105     | A starts "105.", B empty           | A, trimmed        | B    | C      | D    |
//   | 21/101  | A starts "21."/"101.", C empty     | A left of comma   | C    | U      | W    |
//
// The quarter comes from the DD.MM.YYYY date in the file name.
type Stock struct {
	d *layout.Descriptor
}

// Extract implements Extractor.
func (e *Stock) Extract(path string, s *sheet.Sheet) ([]types.Record, error) {
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
		case actionSentinel:
			sc.enter(categoryText(b.cell(layout.FieldCategory), e.d.CategorySeparator))

		case actionAsset:
			rec := types.StockRecord{
				Quarter:   q,
				Category:  sc.current(),
				Name:      b.text(layout.FieldName),
				EndAmount: b.number(layout.FieldEndAmount),
				EndCost:   b.number(layout.FieldEndCost),
			}
			if b.err != nil {
				return nil, b.err
			}
			records = append(records, rec)
		}
	}

	return records, nil
}

// classify uses the name column as the discriminator: empty on sentinel
// rows, filled on asset rows.
func (e *Stock) classify(b *block) rowAction {
	switch {
	case !b.has(layout.FieldName) && hasAnyPrefix(b.cell(layout.FieldCategory), e.d.SentinelPrefixes):
		return actionSentinel
	case b.has(layout.FieldName):
		return actionAsset
	default:
		return actionSkip
	}
}
