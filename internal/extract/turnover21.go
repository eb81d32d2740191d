package extract

import (
	"strings"

	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/quarter"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// Turnover21 scans the 21 and 101 turnover ledgers, where one asset spans
// three consecutive rows:
//
//   row i   : name in A, cost columns   (gross / reversal / in / out / ...)
//   row i+1 : amount columns            (same positions)
//   row i+2 : lookup code in E
//
// A row whose column A starts with "21." or "101." is a category sentinel.
// A row with a value in A starts an asset block only when row i+2 carries a
// code in column E; other rows with a value in A (continuation rows of a
// different meaning) are skipped one at a time.
//
// The first-quarter export shifts the movement and closing columns two
// positions right; that variant is a separate descriptor, not a branch here.
type Turnover21 struct {
	d *layout.Descriptor
}

// Extract implements Extractor.
func (e *Turnover21) Extract(path string, s *sheet.Sheet) ([]types.Record, error) {
	q, err := quarter.Resolve(e.d, path, s)
	if err != nil {
		return nil, err
	}

	var (
		sc      scanner
		records []types.Record
	)

	for i := e.d.StartRow; i <= s.MaxRow(); {
		b := newBlock(path, s, e.d, i)

		switch e.classify(b) {
		case actionSentinel:
			sc.enter(strings.TrimSpace(b.cell(layout.FieldName)))
			i++

		case actionAsset:
			rec := types.CashflowRecord{
				Quarter:       q,
				Category:      sc.current(),
				Code:          b.cell(layout.FieldCode),
				Name:          b.text(layout.FieldName),
				Measure:       e.d.Measure,
				StartAmount:   b.net(layout.FieldStartAmount, layout.FieldStartAmountReversal),
				StartCost:     b.net(layout.FieldStartCost, layout.FieldStartCostReversal),
				FlowInAmount:  b.number(layout.FieldFlowInAmount),
				FlowInCost:    b.number(layout.FieldFlowInCost),
				FlowOutAmount: b.number(layout.FieldFlowOutAmount),
				FlowOutCost:   b.number(layout.FieldFlowOutCost),
				EndAmount:     b.net(layout.FieldEndAmount, layout.FieldEndAmountReversal),
				EndCost:       b.net(layout.FieldEndCost, layout.FieldEndCostReversal),
			}
			if b.err != nil {
				return nil, b.err
			}
			records = append(records, rec)
			i += e.d.BlockRows

		default:
			i++
		}
	}

	return records, nil
}

func (e *Turnover21) classify(b *block) rowAction {
	first := b.cell(layout.FieldName)
	switch {
	case first == "":
		return actionSkip
	case hasAnyPrefix(first, e.d.SentinelPrefixes):
		return actionSentinel
	case b.has(layout.FieldCode):
		return actionAsset
	default:
		return actionSkip
	}
}
