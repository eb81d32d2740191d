// =============================================================================
// Ledger Extractor - Balance Checks
// =============================================================================
//
// The turnover ledgers intend, for both the amount and the cost columns:
//
//   end = start + flow in - flow out
//
// The extractors do not enforce this; a ledger that breaks it is still
// extracted verbatim. This module reports the breaks as warnings so they
// show up in the log and in the run summary.
//
// NULL HANDLING:
//   A null movement counts as zero. A record whose start and end are both
//   null on a side carries no balance for that side and is not checked.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// =============================================================================
// WARNING TYPE
// =============================================================================

// BalanceWarning is a cashflow record whose closing balance does not follow
// from its opening balance and movements.
type BalanceWarning struct {
	// Index is the position of the record in the checked slice (0-based).
	Index int

	// Name is the asset name of the record.
	Name string

	// Side is "amount" or "cost".
	Side string

	// Expected is start + in - out.
	Expected decimal.Decimal

	// Actual is the end value of the record.
	Actual decimal.Decimal
}

// Error implements the error interface so warnings can be logged uniformly.
func (w *BalanceWarning) Error() string {
	return fmt.Sprintf("[WARNING] record %d %q: %s end %s, expected %s",
		w.Index+1, w.Name, w.Side, w.Actual, w.Expected)
}

// =============================================================================
// CHECKS
// =============================================================================

// CheckBalances checks every cashflow record in records. Records of other
// kinds are ignored.
//
// PARAMETERS:
//   - records: The records of one extracted file.
//
// RETURNS:
//   - One warning per broken side, in record order.
func CheckBalances(records []types.Record) []*BalanceWarning {
	var warnings []*BalanceWarning

	for i, r := range records {
		cf, ok := r.(types.CashflowRecord)
		if !ok {
			continue
		}
		if w := checkSide(i, cf.Name, "amount", cf.StartAmount, cf.FlowInAmount, cf.FlowOutAmount, cf.EndAmount); w != nil {
			warnings = append(warnings, w)
		}
		if w := checkSide(i, cf.Name, "cost", cf.StartCost, cf.FlowInCost, cf.FlowOutCost, cf.EndCost); w != nil {
			warnings = append(warnings, w)
		}
	}

	return warnings
}

func checkSide(index int, name, side string, start, in, out, end decimal.NullDecimal) *BalanceWarning {
	if !start.Valid && !end.Valid {
		return nil
	}

	expected := sheet.OrZero(start).Add(sheet.OrZero(in)).Sub(sheet.OrZero(out))
	actual := sheet.OrZero(end)
	if expected.Equal(actual) {
		return nil
	}

	return &BalanceWarning{
		Index:    index,
		Name:     name,
		Side:     side,
		Expected: expected,
		Actual:   actual,
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatWarnings formats balance warnings for display or logging.
func FormatWarnings(warnings []*BalanceWarning) string {
	if len(warnings) == 0 {
		return "No balance warnings."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Balance check completed with %d warning(s):\n\n", len(warnings)))

	for i, w := range warnings {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, w.Error()))
	}

	return builder.String()
}
