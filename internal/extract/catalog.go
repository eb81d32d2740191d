package extract

import (
	"strings"

	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// Catalog scans the reference catalog. There are no categories and no
// period: every row with a name is a record.
type Catalog struct {
	d *layout.Descriptor
}

// Extract implements Extractor.
func (e *Catalog) Extract(path string, s *sheet.Sheet) ([]types.Record, error) {
	var records []types.Record

	for _, row := range s.Rows(e.d.StartRow) {
		b := newBlock(path, s, e.d, row.Index)
		if !b.has(layout.FieldName) {
			continue
		}

		records = append(records, types.CatalogRecord{
			Name:     b.text(layout.FieldName),
			Params:   SplitParams(b.cell(layout.FieldParams)),
			Price:    b.cell(layout.FieldPrice),
			Category: b.cell(layout.FieldCategory),
			KPGZCode: b.cell(layout.FieldKPGZCode),
			KPGZ:     b.cell(layout.FieldKPGZ),
			SPGZCode: b.cell(layout.FieldSPGZCode),
			SPGZ:     b.cell(layout.FieldSPGZ),
		})
	}

	return records, nil
}

// SplitParams splits a catalog parameter cell on ";" into trimmed elements.
// A null or blank cell yields an empty list; empty elements are dropped.
func SplitParams(raw string) []string {
	params := []string{}
	for _, p := range strings.Split(raw, types.ParamsSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return params
}
