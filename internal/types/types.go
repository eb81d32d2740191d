// =============================================================================
// Ledger Extractor - Shared Types
// =============================================================================
//
// This package contains the record kinds emitted by the extractors and the
// types shared across modules to avoid import cycles. Types defined here are
// used by:
//   - extract
//   - converter
//   - validation
//   - tablewriter
//
// NULL CELLS:
//   Text fields use the empty string for an empty source cell. Numeric fields
//   use decimal.NullDecimal so that "no value" and "zero" stay distinct.
//
// =============================================================================

package types

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// QUARTER
// =============================================================================

// Quarter encodes a reporting period as 10*year + quarter number.
// Example: 20242 is the second quarter of 2024.
type Quarter int

// NewQuarter builds a Quarter from a year and a quarter number (1..4).
func NewQuarter(year, number int) Quarter {
	return Quarter(year*10 + number)
}

// Year returns the calendar year of the quarter.
func (q Quarter) Year() int {
	return int(q) / 10
}

// Number returns the quarter number within the year.
func (q Quarter) Number() int {
	return int(q) % 10
}

// String returns the integer encoding, which is also the output format.
func (q Quarter) String() string {
	return strconv.Itoa(int(q))
}

// =============================================================================
// RECORD KINDS
// =============================================================================

// RecordKind identifies one of the homogeneous output datasets.
type RecordKind int

const (
	// KindCashflow is produced by both turnover layouts.
	KindCashflow RecordKind = iota

	// KindStock is produced by both stock-balance layouts.
	KindStock

	// KindCatalog is produced by the reference catalog.
	KindCatalog
)

// AllKinds lists the record kinds in output order.
var AllKinds = []RecordKind{KindCashflow, KindStock, KindCatalog}

// String returns the dataset name, used for output file names and logs.
func (k RecordKind) String() string {
	switch k {
	case KindCashflow:
		return "cashflow"
	case KindStock:
		return "stock"
	case KindCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}

// Header returns the field names of the record kind, in output order.
func (k RecordKind) Header() []string {
	switch k {
	case KindCashflow:
		return []string{
			"Quarter", "Category", "Code", "Name", "Measure", "Start Amount", "Start Cost",
			"Flow In Amount", "Flow In Cost", "Flow Out Amount", "Flow Out Cost", "End Amount", "End Cost",
		}
	case KindStock:
		return []string{"Quarter", "Category", "Name", "End Amount", "End Cost"}
	case KindCatalog:
		return []string{"Name", "Params", "Price", "Category", "KPGZ Code", "KPGZ", "SPGZ Code", "SPGZ"}
	default:
		return nil
	}
}

// NumericColumns returns the zero-based header positions holding numbers.
// Catalog prices are kept as text.
func (k RecordKind) NumericColumns() []int {
	switch k {
	case KindCashflow:
		return []int{0, 5, 6, 7, 8, 9, 10, 11, 12}
	case KindStock:
		return []int{0, 3, 4}
	default:
		return nil
	}
}

// Record is a single normalized output row.
type Record interface {
	// Kind reports which dataset the record belongs to.
	Kind() RecordKind

	// Values returns the field values in the order of Kind().Header().
	Values() []string
}

// =============================================================================
// CASHFLOW RECORD
// =============================================================================

// CashflowRecord is one asset's opening balance, movements and closing
// balance for a quarter. The source data intends end = start + in - out for
// both the amount and the cost columns; this is not enforced here.
type CashflowRecord struct {
	Quarter  Quarter
	Category string
	Code     string
	Name     string
	Measure  string

	StartAmount   decimal.NullDecimal
	StartCost     decimal.NullDecimal
	FlowInAmount  decimal.NullDecimal
	FlowInCost    decimal.NullDecimal
	FlowOutAmount decimal.NullDecimal
	FlowOutCost   decimal.NullDecimal
	EndAmount     decimal.NullDecimal
	EndCost       decimal.NullDecimal
}

// Kind implements Record.
func (r CashflowRecord) Kind() RecordKind { return KindCashflow }

// Values implements Record.
func (r CashflowRecord) Values() []string {
	return []string{
		r.Quarter.String(),
		r.Category,
		r.Code,
		r.Name,
		r.Measure,
		FormatNumber(r.StartAmount),
		FormatNumber(r.StartCost),
		FormatNumber(r.FlowInAmount),
		FormatNumber(r.FlowInCost),
		FormatNumber(r.FlowOutAmount),
		FormatNumber(r.FlowOutCost),
		FormatNumber(r.EndAmount),
		FormatNumber(r.EndCost),
	}
}

// =============================================================================
// STOCK RECORD
// =============================================================================

// StockRecord is one asset's closing balance from a point-in-time snapshot.
type StockRecord struct {
	Quarter   Quarter
	Category  string
	Name      string
	EndAmount decimal.NullDecimal
	EndCost   decimal.NullDecimal
}

// Kind implements Record.
func (r StockRecord) Kind() RecordKind { return KindStock }

// Values implements Record.
func (r StockRecord) Values() []string {
	return []string{
		r.Quarter.String(),
		r.Category,
		r.Name,
		FormatNumber(r.EndAmount),
		FormatNumber(r.EndCost),
	}
}

// =============================================================================
// CATALOG RECORD
// =============================================================================

// ParamsSeparator joins and splits the catalog parameter list.
const ParamsSeparator = ";"

// CatalogRecord maps an asset name to its classification codes.
// Catalog records carry no quarter.
type CatalogRecord struct {
	Name     string
	Params   []string
	Price    string
	Category string
	KPGZCode string
	KPGZ     string
	SPGZCode string
	SPGZ     string
}

// Kind implements Record.
func (r CatalogRecord) Kind() RecordKind { return KindCatalog }

// Values implements Record.
func (r CatalogRecord) Values() []string {
	return []string{
		r.Name,
		strings.Join(r.Params, ParamsSeparator),
		r.Price,
		r.Category,
		r.KPGZCode,
		r.KPGZ,
		r.SPGZCode,
		r.SPGZ,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// FormatNumber renders a nullable number; null becomes the empty string.
func FormatNumber(n decimal.NullDecimal) string {
	if !n.Valid {
		return ""
	}
	return n.Decimal.String()
}
