// =============================================================================
// Ledger Extractor - Layout Descriptors
// =============================================================================
//
// Each recognized export layout is described by a named Descriptor: where the
// scan starts, where the reporting period lives, which prefixes mark a
// category row, and a column map from logical field to row-relative cell.
//
// LAYOUTS:
//
//   | Layout               | Record   | Start row | Period source        |
//   |----------------------|----------|-----------|----------------------|
//   | turnover-105         | cashflow | 4         | header cell H1       |
//   | turnover-21-101      | cashflow | 15        | header cell A2       |
//   | turnover-21-101-q1   | cashflow | 15        | header cell A2       |
//   | stock-105            | stock    | 4         | file name date       |
//   | stock-21-101         | stock    | 11        | file name date       |
//   | catalog              | catalog  | 2         | none                 |
//
// ROW-RELATIVE POSITIONS:
//   The 21/101 turnover ledger spreads one asset over three rows. A Position
//   names the row offset within that block (0 = cost row, 1 = amount row,
//   2 = lookup row) together with the 1-based column. Single-row layouts only
//   use offset 0.
//
// =============================================================================

package layout

import (
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// =============================================================================
// LAYOUT IDENTIFIERS
// =============================================================================

// Layout identifies a physical export layout.
type Layout int

const (
	Unknown Layout = iota
	Turnover105
	Turnover21_101
	Turnover21_101Q1
	Stock105
	Stock21_101
	Catalog
)

// String returns the layout name used in logs and by the classify command.
func (l Layout) String() string {
	switch l {
	case Turnover105:
		return "turnover-105"
	case Turnover21_101:
		return "turnover-21-101"
	case Turnover21_101Q1:
		return "turnover-21-101-q1"
	case Stock105:
		return "stock-105"
	case Stock21_101:
		return "stock-21-101"
	case Catalog:
		return "catalog"
	default:
		return "unknown"
	}
}

// PeriodSource says where a layout keeps its reporting period.
type PeriodSource int

const (
	// PeriodNone: the layout carries no quarter.
	PeriodNone PeriodSource = iota

	// PeriodHeaderCell: a sentence in a header cell names the quarter.
	PeriodHeaderCell

	// PeriodFileName: the file name carries a DD.MM.YYYY date.
	PeriodFileName
)

// =============================================================================
// COLUMN MAP
// =============================================================================

// Field is a logical input field.
type Field string

const (
	FieldID       Field = "id"
	FieldCategory Field = "category"
	FieldCode     Field = "code"
	FieldName     Field = "name"
	FieldMeasure  Field = "measure"
	FieldParams   Field = "params"
	FieldPrice    Field = "price"
	FieldKPGZCode Field = "kpgz_code"
	FieldKPGZ     Field = "kpgz"
	FieldSPGZCode Field = "spgz_code"
	FieldSPGZ     Field = "spgz"

	FieldStartAmount   Field = "start_amount"
	FieldStartCost     Field = "start_cost"
	FieldFlowInAmount  Field = "flow_in_amount"
	FieldFlowInCost    Field = "flow_in_cost"
	FieldFlowOutAmount Field = "flow_out_amount"
	FieldFlowOutCost   Field = "flow_out_cost"
	FieldEndAmount     Field = "end_amount"
	FieldEndCost       Field = "end_cost"

	// The 21/101 ledger stores signed balances as a gross column and a
	// reversal column; the balance is gross minus reversal.
	FieldStartAmountReversal Field = "start_amount_reversal"
	FieldStartCostReversal   Field = "start_cost_reversal"
	FieldEndAmountReversal   Field = "end_amount_reversal"
	FieldEndCostReversal     Field = "end_cost_reversal"
)

// Position is a cell address relative to the first row of a record block.
type Position struct {
	// RowOffset is the row distance from the block's first row.
	RowOffset int

	// Col is the 1-based column number.
	Col int
}

// ColumnMap maps logical fields to cell positions.
type ColumnMap map[Field]Position

// shifted returns a copy of m with the listed fields moved right by n columns.
func (m ColumnMap) shifted(n int, fields ...Field) ColumnMap {
	out := make(ColumnMap, len(m))
	for f, p := range m {
		out[f] = p
	}
	for _, f := range fields {
		p := out[f]
		p.Col += n
		out[f] = p
	}
	return out
}

// =============================================================================
// DESCRIPTOR
// =============================================================================

// HeaderCell locates the period sentence and the word positions within it.
// Negative word positions count from the end of the sentence (-1 = last).
type HeaderCell struct {
	Row         int
	Col         int
	QuarterWord int
	YearWord    int
}

// Descriptor is the complete, declarative description of one layout.
type Descriptor struct {
	// Layout is the layout identifier.
	Layout Layout

	// Kind is the record kind the layout produces.
	Kind types.RecordKind

	// StartRow is the first row the scan visits (1-based).
	StartRow int

	// Period says where the quarter comes from.
	Period PeriodSource

	// Header locates the period sentence when Period is PeriodHeaderCell.
	Header HeaderCell

	// SentinelPrefixes mark category rows by the text they start with.
	// Empty for layouts whose sentinels are recognized by shape alone.
	SentinelPrefixes []string

	// CategorySeparator splits a sentinel's text; the left part is the
	// category. Empty means the whole trimmed text is the category.
	CategorySeparator string

	// Measure is a literal unit of measure for layouts that do not carry one.
	Measure string

	// BlockRows is the number of rows one asset spans.
	BlockRows int

	// Columns maps logical fields to their positions.
	Columns ColumnMap
}

// Pos returns the position of a field. Every extractor only asks for fields
// its descriptors define; a missing field is a programming error.
func (d *Descriptor) Pos(f Field) Position {
	p, ok := d.Columns[f]
	if !ok {
		panic("layout " + d.Layout.String() + " has no column for field " + string(f))
	}
	return p
}

// =============================================================================
// DESCRIPTOR TABLE
// =============================================================================

var turnover21Columns = ColumnMap{
	FieldName: {RowOffset: 0, Col: 1},
	FieldCode: {RowOffset: 2, Col: 5},

	FieldStartAmount:         {RowOffset: 1, Col: 11},
	FieldStartAmountReversal: {RowOffset: 1, Col: 12},
	FieldStartCost:           {RowOffset: 0, Col: 11},
	FieldStartCostReversal:   {RowOffset: 0, Col: 12},

	FieldFlowInAmount:  {RowOffset: 1, Col: 13},
	FieldFlowInCost:    {RowOffset: 0, Col: 13},
	FieldFlowOutAmount: {RowOffset: 1, Col: 14},
	FieldFlowOutCost:   {RowOffset: 0, Col: 14},

	FieldEndAmount:         {RowOffset: 1, Col: 15},
	FieldEndAmountReversal: {RowOffset: 1, Col: 16},
	FieldEndCost:           {RowOffset: 0, Col: 15},
	FieldEndCostReversal:   {RowOffset: 0, Col: 16},
}

// The first-quarter export of the 21 ledger has two extra blank columns
// before the movement columns.
var turnover21Q1Columns = turnover21Columns.shifted(2,
	FieldFlowInAmount, FieldFlowInCost, FieldFlowOutAmount, FieldFlowOutCost,
	FieldEndAmount, FieldEndAmountReversal, FieldEndCost, FieldEndCostReversal,
)

var descriptors = map[Layout]*Descriptor{
	Turnover105: {
		Layout:            Turnover105,
		Kind:              types.KindCashflow,
		StartRow:          4,
		Period:            PeriodHeaderCell,
		Header:            HeaderCell{Row: 1, Col: 8, QuarterWord: 2, YearWord: -2},
		CategorySeparator: "-",
		BlockRows:         1,
		Columns: ColumnMap{
			FieldID:            {Col: 1},
			FieldCategory:      {Col: 2},
			FieldCode:          {Col: 3},
			FieldName:          {Col: 4},
			FieldMeasure:       {Col: 5},
			FieldStartAmount:   {Col: 6},
			FieldStartCost:     {Col: 7},
			FieldFlowInAmount:  {Col: 8},
			FieldFlowInCost:    {Col: 9},
			FieldFlowOutAmount: {Col: 10},
			FieldFlowOutCost:   {Col: 11},
			FieldEndAmount:     {Col: 12},
			FieldEndCost:       {Col: 13},
		},
	},
	Turnover21_101: {
		Layout:           Turnover21_101,
		Kind:             types.KindCashflow,
		StartRow:         15,
		Period:           PeriodHeaderCell,
		Header:           HeaderCell{Row: 2, Col: 1, QuarterWord: 6, YearWord: -2},
		SentinelPrefixes: []string{"21.", "101."},
		Measure:          "шт.",
		BlockRows:        3,
		Columns:          turnover21Columns,
	},
	Turnover21_101Q1: {
		Layout:           Turnover21_101Q1,
		Kind:             types.KindCashflow,
		StartRow:         15,
		Period:           PeriodHeaderCell,
		Header:           HeaderCell{Row: 2, Col: 1, QuarterWord: 6, YearWord: -2},
		SentinelPrefixes: []string{"21.", "101."},
		Measure:          "шт.",
		BlockRows:        3,
		Columns:          turnover21Q1Columns,
	},
	Stock105: {
		Layout:           Stock105,
		Kind:             types.KindStock,
		StartRow:         4,
		Period:           PeriodFileName,
		SentinelPrefixes: []string{"105."},
		BlockRows:        1,
		Columns: ColumnMap{
			FieldCategory:  {Col: 1},
			FieldName:      {Col: 2},
			FieldEndAmount: {Col: 3},
			FieldEndCost:   {Col: 4},
		},
	},
	Stock21_101: {
		Layout:            Stock21_101,
		Kind:              types.KindStock,
		StartRow:          11,
		Period:            PeriodFileName,
		SentinelPrefixes:  []string{"21.", "101."},
		CategorySeparator: ",",
		BlockRows:         1,
		Columns: ColumnMap{
			FieldCategory:  {Col: 1},
			FieldName:      {Col: 3},
			FieldEndAmount: {Col: 21},
			FieldEndCost:   {Col: 23},
		},
	},
	Catalog: {
		Layout:    Catalog,
		Kind:      types.KindCatalog,
		StartRow:  2,
		Period:    PeriodNone,
		BlockRows: 1,
		Columns: ColumnMap{
			FieldName:     {Col: 1},
			FieldParams:   {Col: 2},
			FieldPrice:    {Col: 3},
			FieldCategory: {Col: 4},
			FieldKPGZCode: {Col: 5},
			FieldKPGZ:     {Col: 6},
			FieldSPGZCode: {Col: 7},
			FieldSPGZ:     {Col: 8},
		},
	},
}

// Describe returns the descriptor of a layout, or nil for Unknown.
func Describe(l Layout) *Descriptor {
	return descriptors[l]
}

// All returns every known layout in a stable order.
func All() []Layout {
	return []Layout{Turnover105, Turnover21_101, Turnover21_101Q1, Stock105, Stock21_101, Catalog}
}
