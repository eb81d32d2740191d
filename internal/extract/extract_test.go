package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// =============================================================================
// FIXTURE HELPERS
// =============================================================================

// cells builds one sheet row from 1-based column values.
func cells(values map[int]string) []string {
	width := 0
	for col := range values {
		if col > width {
			width = col
		}
	}
	row := make([]string, width)
	for col, v := range values {
		row[col-1] = v
	}
	return row
}

// grid builds a sheet from 1-based rows; missing rows are empty.
func grid(rows map[int]map[int]string) *sheet.Sheet {
	height := 0
	for r := range rows {
		if r > height {
			height = r
		}
	}
	out := make([][]string, height)
	for r, values := range rows {
		out[r-1] = cells(values)
	}
	return sheet.FromRows("Лист1", out)
}

func extractAll(t *testing.T, l layout.Layout, path string, s *sheet.Sheet) []types.Record {
	t.Helper()
	e, err := For(layout.Describe(l))
	require.NoError(t, err)
	records, err := e.Extract(path, s)
	require.NoError(t, err)
	return records
}

func cashflow(t *testing.T, r types.Record) types.CashflowRecord {
	t.Helper()
	cf, ok := r.(types.CashflowRecord)
	require.True(t, ok, "record is %T", r)
	return cf
}

// =============================================================================
// TURNOVER 105
// =============================================================================

const path105 = "Обороты по счету 105 за 2 квартал 2024.xlsx"

func turnover105Sheet(extra map[int]map[int]string) *sheet.Sheet {
	rows := map[int]map[int]string{
		1: {8: "Оборотная ведомость за 2 квартал 2024"},
		4: {2: "101 - Машины"},
		5: {1: "5", 3: "C1", 4: "Станок", 5: "шт", 6: "10", 7: "1000", 8: "2", 9: "200", 10: "1", 11: "100", 12: "11", 13: "1100"},
	}
	for r, v := range extra {
		rows[r] = v
	}
	return grid(rows)
}

func TestTurnover105(t *testing.T) {
	records := extractAll(t, layout.Turnover105, path105, turnover105Sheet(nil))

	require.Len(t, records, 1)
	r := cashflow(t, records[0])
	assert.Equal(t, types.Quarter(20242), r.Quarter)
	assert.Equal(t, "101", r.Category)
	assert.Equal(t, "C1", r.Code)
	assert.Equal(t, "Станок", r.Name)
	assert.Equal(t, "шт", r.Measure)
	assert.Equal(t, "10", r.StartAmount.Decimal.String())
	assert.Equal(t, "200", r.FlowInCost.Decimal.String())
	assert.Equal(t, "11", r.EndAmount.Decimal.String())
	assert.Equal(t, "1100", r.EndCost.Decimal.String())
}

func TestTurnover105CategoryCarriesForward(t *testing.T) {
	s := turnover105Sheet(map[int]map[int]string{
		6:  {1: "6", 3: "C2", 4: "Пресс", 12: "1"},
		7:  {2: "102 - Инвентарь"},
		8:  {1: "7", 3: "C3", 4: "Шкаф", 12: "3"},
		9:  {},
		10: {1: "8", 3: "C4", 4: "Полка"},
	})

	records := extractAll(t, layout.Turnover105, path105, s)

	require.Len(t, records, 4)
	assert.Equal(t, "101", cashflow(t, records[0]).Category)
	assert.Equal(t, "101", cashflow(t, records[1]).Category)
	assert.Equal(t, "102", cashflow(t, records[2]).Category)
	assert.Equal(t, "102", cashflow(t, records[3]).Category)
	assert.False(t, cashflow(t, records[3]).EndAmount.Valid)
}

func TestTurnover105AssetBeforeFirstSentinel(t *testing.T) {
	s := grid(map[int]map[int]string{
		1: {8: "Оборотная ведомость за 2 квартал 2024"},
		4: {1: "1", 3: "C0", 4: "Без категории"},
	})

	records := extractAll(t, layout.Turnover105, path105, s)

	require.Len(t, records, 1)
	assert.Equal(t, "", cashflow(t, records[0]).Category)
}

func TestTurnover105IgnoresRowsAboveStart(t *testing.T) {
	s := turnover105Sheet(map[int]map[int]string{
		3: {1: "№", 2: "Категория", 3: "Код"},
	})

	records := extractAll(t, layout.Turnover105, path105, s)

	require.Len(t, records, 1)
}

func TestTurnover105MalformedRowAbortsFile(t *testing.T) {
	s := turnover105Sheet(map[int]map[int]string{
		6: {1: "6", 3: "C2", 4: "Пресс", 12: "много"},
	})

	e, err := For(layout.Describe(layout.Turnover105))
	require.NoError(t, err)
	records, err := e.Extract(path105, s)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, types.MalformedRow, types.KindOf(err))

	le, ok := err.(*types.LedgerError)
	require.True(t, ok)
	assert.Equal(t, 6, le.Row)
	assert.Equal(t, 12, le.Column)
}

func TestTurnover105MissingPeriod(t *testing.T) {
	s := grid(map[int]map[int]string{
		1: {8: "Оборотная ведомость"},
		4: {1: "1", 3: "C0"},
	})

	e, _ := For(layout.Describe(layout.Turnover105))
	records, err := e.Extract(path105, s)

	assert.Nil(t, records)
	assert.Equal(t, types.MissingPeriod, types.KindOf(err))
}

// =============================================================================
// TURNOVER 21/101
// =============================================================================

const header21 = "Оборотно-сальдовая ведомость по счету 21 за 2 квартал 2024 г."

// block21 lays out one three-row asset block starting at row i with the
// movement and closing columns shifted by m.
func block21(rows map[int]map[int]string, i, m int, name, code string, cost, amount [6]string) {
	rows[i] = map[int]string{1: name, 11: cost[0], 12: cost[1], 13 + m: cost[2], 14 + m: cost[3], 15 + m: cost[4], 16 + m: cost[5]}
	rows[i+1] = map[int]string{11: amount[0], 12: amount[1], 13 + m: amount[2], 14 + m: amount[3], 15 + m: amount[4], 16 + m: amount[5]}
	rows[i+2] = map[int]string{5: code}
}

func turnover21Sheet(m int) *sheet.Sheet {
	rows := map[int]map[int]string{
		2:  {1: header21},
		14: {1: "Счет", 5: "Код"},
		15: {1: "21.34"},
	}
	// start, start reversal, in, out, end, end reversal
	block21(rows, 16, m, "Стол ", "К-001",
		[6]string{"500", "100", "50", "0", "450", ""},
		[6]string{"5", "", "1", "", "6", ""})
	rows[19] = map[int]string{1: "101.36 Инвентарь"}
	block21(rows, 20, m, "Стул", "К-002",
		[6]string{"100", "", "", "30", "", "20"},
		[6]string{"2", "", "", "1", "1", "2"})
	rows[23] = map[int]string{1: "Итого"}
	return grid(rows)
}

func TestTurnover21(t *testing.T) {
	records := extractAll(t, layout.Turnover21_101, "Обороты по счету 21 за 2 квартал 2024.xlsx", turnover21Sheet(0))

	require.Len(t, records, 2)

	first := cashflow(t, records[0])
	assert.Equal(t, types.Quarter(20242), first.Quarter)
	assert.Equal(t, "21.34", first.Category)
	assert.Equal(t, "К-001", first.Code)
	assert.Equal(t, "Стол", first.Name)
	assert.Equal(t, "шт.", first.Measure)
	assert.Equal(t, []string{
		"20242", "21.34", "К-001", "Стол", "шт.", "5", "400", "1", "50", "", "0", "6", "450",
	}, first.Values())

	second := cashflow(t, records[1])
	assert.Equal(t, "101.36 Инвентарь", second.Category)
	assert.Equal(t, "К-002", second.Code)
	assert.Equal(t, "-1", second.EndAmount.Decimal.String())
	assert.Equal(t, "-20", second.EndCost.Decimal.String())
	assert.Equal(t, "100", second.StartCost.Decimal.String())
}

func TestTurnover21FirstQuarterShift(t *testing.T) {
	path := "Обороты по счету 21 за 1 квартал 2024.xlsx"
	d, err := layout.NewClassifier("", "").Classify(path)
	require.NoError(t, err)
	require.Equal(t, layout.Turnover21_101Q1, d.Layout)

	shifted := extractAll(t, d.Layout, path, turnover21Sheet(2))
	plain := extractAll(t, layout.Turnover21_101, "Обороты по счету 21 за 2 квартал 2024.xlsx", turnover21Sheet(0))

	require.Len(t, shifted, len(plain))
	for i := range plain {
		assert.Equal(t, plain[i].Values(), shifted[i].Values())
	}
}

func TestTurnover21UnshiftedSheetUnderFirstQuarterLayout(t *testing.T) {
	records := extractAll(t, layout.Turnover21_101Q1, "Обороты по счету 21 за 1 квартал 2024.xlsx", turnover21Sheet(0))

	require.Len(t, records, 2)
	r := cashflow(t, records[0])
	assert.Equal(t, "450", r.FlowInCost.Decimal.String())
	assert.False(t, r.FlowOutCost.Valid)
}

func TestTurnover21SkipsRowsWithoutCode(t *testing.T) {
	rows := map[int]map[int]string{
		2:  {1: header21},
		15: {1: "21.34"},
		16: {1: "Примечание"},
		17: {1: "Ещё строка"},
	}
	block21(rows, 18, 0, "Стол", "К-001",
		[6]string{"1", "", "", "", "1", ""},
		[6]string{"1", "", "", "", "1", ""})

	records := extractAll(t, layout.Turnover21_101, "Обороты по счету 21 за 2 квартал 2024.xlsx", grid(rows))

	require.Len(t, records, 1)
	assert.Equal(t, "Стол", cashflow(t, records[0]).Name)
}

func TestTurnover21BlockAtSheetEnd(t *testing.T) {
	rows := map[int]map[int]string{
		2:  {1: header21},
		15: {1: "21.34"},
		16: {1: "Стол", 11: "5"},
		17: {11: "1"},
	}

	records := extractAll(t, layout.Turnover21_101, "Обороты по счету 21 за 2 квартал 2024.xlsx", grid(rows))

	assert.Empty(t, records)
}

func TestTurnover21MalformedRow(t *testing.T) {
	rows := map[int]map[int]string{2: {1: header21}}
	block21(rows, 15, 0, "Стол", "К-001",
		[6]string{"x", "", "", "", "", ""},
		[6]string{"", "", "", "", "", ""})

	e, _ := For(layout.Describe(layout.Turnover21_101))
	records, err := e.Extract("Обороты по счету 21 за 2 квартал 2024.xlsx", grid(rows))

	assert.Nil(t, records)
	assert.Equal(t, types.MalformedRow, types.KindOf(err))
}

// =============================================================================
// STOCK
// =============================================================================

func TestStock105(t *testing.T) {
	s := grid(map[int]map[int]string{
		1: {1: "Остатки на 30.06.2024"},
		4: {1: "105.34 Материалы"},
		5: {2: "Бумага", 3: "5", 4: "250"},
		6: {1: "105.36 Инвентарь"},
		7: {2: " Ручка ", 3: "10", 4: "30,5"},
		8: {1: "Итого"},
	})

	records := extractAll(t, layout.Stock105, "Остатки/Остатки 105 на 30.06.2024.xlsx", s)

	require.Len(t, records, 2)
	assert.Equal(t, []string{"20242", "105.34 Материалы", "Бумага", "5", "250"}, records[0].Values())
	assert.Equal(t, []string{"20242", "105.36 Инвентарь", "Ручка", "10", "30.5"}, records[1].Values())
}

func TestStock21(t *testing.T) {
	s := grid(map[int]map[int]string{
		11: {1: "21.34, Оборудование"},
		12: {3: "Стол", 21: "2", 23: "800"},
		13: {1: "101.36, Инвентарь"},
		14: {3: "Стул", 21: "4"},
	})

	records := extractAll(t, layout.Stock21_101, "Остатки/Остатки 21 на 31.03.2024.xlsx", s)

	require.Len(t, records, 2)
	first, ok := records[0].(types.StockRecord)
	require.True(t, ok)
	assert.Equal(t, types.Quarter(20241), first.Quarter)
	assert.Equal(t, "21.34", first.Category)
	assert.Equal(t, "Стол", first.Name)
	assert.Equal(t, "800", first.EndCost.Decimal.String())

	assert.Equal(t, "101.36", records[1].(types.StockRecord).Category)
	assert.False(t, records[1].(types.StockRecord).EndCost.Valid)
}

func TestStockMissingPeriod(t *testing.T) {
	e, _ := For(layout.Describe(layout.Stock105))
	_, err := e.Extract("Остатки/Остатки 105.xlsx", grid(map[int]map[int]string{4: {2: "Бумага"}}))

	assert.Equal(t, types.MissingPeriod, types.KindOf(err))
}

// =============================================================================
// CATALOG
// =============================================================================

func TestCatalog(t *testing.T) {
	s := grid(map[int]map[int]string{
		1: {1: "Наименование", 2: "Параметры"},
		2: {1: " Стол ", 2: "цвет: белый; ширина 120 ;", 3: "1000", 4: "Мебель", 5: "01.02", 6: "Столы", 7: "03.04", 8: "Стол письменный"},
		3: {2: "нет имени"},
		4: {1: "Стул"},
	})

	records := extractAll(t, layout.Catalog, "Справочник.xlsx", s)

	require.Len(t, records, 2)
	first, ok := records[0].(types.CatalogRecord)
	require.True(t, ok)
	assert.Equal(t, "Стол", first.Name)
	assert.Equal(t, []string{"цвет: белый", "ширина 120"}, first.Params)
	assert.Equal(t, "1000", first.Price)
	assert.Equal(t, "Стол письменный", first.SPGZ)

	second := records[1].(types.CatalogRecord)
	assert.NotNil(t, second.Params)
	assert.Empty(t, second.Params)
}

func TestSplitParams(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"  ", []string{}},
		{"a", []string{"a"}},
		{" a ; b ", []string{"a", "b"}},
		{"a;;b;", []string{"a", "b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitParams(tt.raw), "raw %q", tt.raw)
	}
}

func TestSplitParamsRoundTrip(t *testing.T) {
	params := SplitParams("a;b;c")
	rec := types.CatalogRecord{Name: "x", Params: params}

	assert.Equal(t, params, SplitParams(rec.Values()[1]))
}

// =============================================================================
// DISPATCH
// =============================================================================

func TestForUnknownLayout(t *testing.T) {
	_, err := For(nil)
	assert.Error(t, err)

	_, err = For(&layout.Descriptor{Layout: layout.Unknown})
	assert.Error(t, err)
}
