package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// =============================================================================
// CATEGORY STATE MACHINE
// =============================================================================
//
//   awaitingCategory --sentinel--> inCategory --sentinel--> inCategory
//          |                           |
//        asset                       asset
//   (category "")              (current category)
//

type scanState int

const (
	awaitingCategory scanState = iota
	inCategory
)

// rowAction is the transition a visited row triggers.
type rowAction int

const (
	actionSkip rowAction = iota
	actionSentinel
	actionAsset
)

// scanner tracks the current category of one extraction pass.
type scanner struct {
	state    scanState
	category string
}

// enter moves the scanner into a new category.
func (s *scanner) enter(category string) {
	s.category = category
	s.state = inCategory
}

// current returns the category records are tagged with; "" before the first
// sentinel.
func (s *scanner) current() string {
	if s.state == awaitingCategory {
		return ""
	}
	return s.category
}

// categoryText derives a category from a sentinel's text: the part left of
// the separator, trimmed. An empty separator keeps the whole text.
func categoryText(raw, separator string) string {
	if separator != "" {
		raw, _, _ = strings.Cut(raw, separator)
	}
	return strings.TrimSpace(raw)
}

// hasAnyPrefix reports whether text starts with one of the prefixes.
func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// =============================================================================
// BLOCK READER
// =============================================================================

// block reads the fields of one record block through the layout's column
// map. The first malformed cell is kept in err; later reads still return
// values so record construction stays linear.
type block struct {
	path  string
	sheet *sheet.Sheet
	d     *layout.Descriptor
	row   int
	err   error
}

func newBlock(path string, s *sheet.Sheet, d *layout.Descriptor, row int) *block {
	return &block{path: path, sheet: s, d: d, row: row}
}

// cell returns the raw value of a field.
func (b *block) cell(f layout.Field) string {
	p := b.d.Pos(f)
	return b.sheet.Cell(b.row+p.RowOffset, p.Col)
}

// has reports whether a field's cell is non-null.
func (b *block) has(f layout.Field) bool {
	return b.cell(f) != ""
}

// text returns the trimmed value of a field.
func (b *block) text(f layout.Field) string {
	return strings.TrimSpace(b.cell(f))
}

// number parses a field as a nullable decimal.
func (b *block) number(f layout.Field) decimal.NullDecimal {
	p := b.d.Pos(f)
	raw := b.sheet.Cell(b.row+p.RowOffset, p.Col)
	n, err := sheet.ParseNumber(raw)
	if err != nil && b.err == nil {
		b.err = types.NewCellError(types.MalformedRow, b.path, b.row+p.RowOffset, p.Col,
			"%s: %q is not a number", f, raw)
	}
	return n
}

// net returns gross minus reversal with null read as zero. The ledger keeps
// signed balances as two unsigned columns.
func (b *block) net(gross, reversal layout.Field) decimal.NullDecimal {
	g := sheet.OrZero(b.number(gross))
	r := sheet.OrZero(b.number(reversal))
	return decimal.NewNullDecimal(g.Sub(r))
}
