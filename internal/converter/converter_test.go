package converter

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/internal/logging"
	"github.com/ginjaninja78/ledgerx/internal/sheet"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

// =============================================================================
// FIXTURES
// =============================================================================

const (
	turnoverPath = "Обороты по счету 105 за 2 квартал 2024.xlsx"
	stockPath    = "Остатки/Остатки 105 на 30.06.2024.xlsx"
	catalogPath  = "Справочник.xlsx"
)

// fakeOpener serves in-memory sheets and counts Open calls.
type fakeOpener struct {
	mu     sync.Mutex
	sheets map[string]*sheet.Sheet
	opened []string
}

func (o *fakeOpener) Open(path string) (*sheet.Sheet, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, path)
	s, ok := o.sheets[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return s, nil
}

func newOpener() *fakeOpener {
	return &fakeOpener{sheets: map[string]*sheet.Sheet{
		turnoverPath: sheet.FromRows("Лист1", [][]string{
			{"", "", "", "", "", "", "", "Оборотная ведомость за 2 квартал 2024"},
			{},
			{},
			{"", "101 - Машины"},
			{"5", "", "C1", "Станок", "шт", "10", "1000", "2", "200", "1", "100", "11", "1100"},
			{"6", "", "C2", "Пресс", "шт", "1", "10", "", "", "", "", "2", "10"},
		}),
		stockPath: sheet.FromRows("Лист1", [][]string{
			{}, {}, {},
			{"105.34 Материалы"},
			{"", "Бумага", "5", "250"},
		}),
		catalogPath: sheet.FromRows("Лист1", [][]string{
			{"Наименование"},
			{"Стол", "a;b", "1000"},
		}),
	}}
}

func newConverter(opener sheet.Opener) *Converter {
	return New(layout.NewClassifier("", ""), opener, logging.Discard(), Options{CheckBalances: true})
}

// =============================================================================
// SINGLE FILE
// =============================================================================

func TestRun(t *testing.T) {
	result := newConverter(newOpener()).Run(turnoverPath)

	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, layout.Turnover105, result.Layout)
	assert.Equal(t, types.KindCashflow, result.Kind)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 6, result.Stats.RowsScanned)
	assert.Equal(t, 2, result.Stats.RecordsEmitted)

	// Пресс: amount 1 + 0 - 0 != 2
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Пресс", result.Warnings[0].Name)
	assert.Equal(t, "amount", result.Warnings[0].Side)
}

func TestRunRejectsBeforeOpening(t *testing.T) {
	tests := []struct {
		path string
		kind types.ErrorKind
	}{
		{"~$Обороты по счету 21 за 1 квартал 2024.xlsx", types.InvalidPath},
		{"Обороты по счету 105.csv", types.InvalidPath},
		{"Ведомость за 2 квартал 2024.xlsx", types.UnrecognizedLedger},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			opener := newOpener()
			records, err := newConverter(opener).Extract(tt.path)

			assert.Nil(t, records)
			assert.Equal(t, tt.kind, types.KindOf(err))
			assert.Empty(t, opener.opened)
		})
	}
}

func TestRunOpenFailure(t *testing.T) {
	result := newConverter(newOpener()).Run("Обороты по счету 21 за 3 квартал 2024.xlsx")

	assert.False(t, result.Success)
	assert.Nil(t, result.Records)
	assert.Equal(t, "IOError", ErrorKindName(result.Error))
	assert.Equal(t, layout.Turnover21_101, result.Layout)
}

func TestRunMissingPeriodReturnsNoRecords(t *testing.T) {
	opener := newOpener()
	opener.sheets[turnoverPath] = sheet.FromRows("Лист1", [][]string{
		{"", "", "", "", "", "", "", "Оборотная ведомость"},
		{}, {},
		{"5", "", "C1", "Станок"},
	})

	records, err := newConverter(opener).Extract(turnoverPath)

	assert.Nil(t, records)
	assert.True(t, errors.Is(err, types.ErrMissingPeriod))
	assert.Equal(t, "MissingPeriod", ErrorKindName(err))
}

func TestBalanceCheckDisabled(t *testing.T) {
	conv := New(layout.NewClassifier("", ""), newOpener(), logging.Discard(), Options{})

	result := conv.Run(turnoverPath)

	require.True(t, result.Success)
	assert.Empty(t, result.Warnings)
}

// =============================================================================
// BATCH
// =============================================================================

func TestBatchPreservesInputOrder(t *testing.T) {
	paths := []string{catalogPath, turnoverPath, "~$lock.xlsx", stockPath, turnoverPath}

	results := NewBatch(newConverter(newOpener()), 4, logging.Discard()).Run(context.Background(), paths)

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.FilePath)
	}
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)
	assert.False(t, results[2].Success)
	assert.Equal(t, types.InvalidPath, types.KindOf(results[2].Error))
	assert.True(t, results[3].Success)
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewBatch(newConverter(newOpener()), 1, logging.Discard()).Run(ctx, []string{turnoverPath})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.ErrorIs(t, results[0].Error, context.Canceled)
}

func TestAggregateHeaderOnce(t *testing.T) {
	paths := []string{turnoverPath, "Ведомость.xlsx", turnoverPath}
	results := NewBatch(newConverter(newOpener()), 2, logging.Discard()).Run(context.Background(), paths)

	ds := Aggregate(types.KindCashflow, results, true)

	require.True(t, ds.HasHeader)
	assert.Equal(t, types.KindCashflow.Header(), ds.Rows[0])
	assert.Equal(t, 2, ds.Files)
	assert.Equal(t, 4, ds.Records())
	assert.Len(t, ds.Rows, 5)

	headers := 0
	for _, row := range ds.Rows {
		if row[0] == "Quarter" {
			headers++
		}
	}
	assert.Equal(t, 1, headers)
	assert.Equal(t, "Станок", ds.Rows[1][3])
	assert.Equal(t, "Станок", ds.Rows[3][3])
}

func TestAggregateWithoutHeader(t *testing.T) {
	results := NewBatch(newConverter(newOpener()), 1, logging.Discard()).Run(context.Background(), []string{turnoverPath})

	ds := Aggregate(types.KindCashflow, results, false)

	assert.False(t, ds.HasHeader)
	assert.Equal(t, 2, ds.Records())
	assert.Equal(t, "20242", ds.Rows[0][0])
}

func TestAggregateHeaderWhenNothingContributed(t *testing.T) {
	ds := Aggregate(types.KindStock, []Result{{FilePath: "x", Error: errors.New("boom")}}, true)

	assert.True(t, ds.HasHeader)
	assert.Equal(t, 0, ds.Records())
	assert.Equal(t, 0, ds.Files)
}

func TestAggregateAll(t *testing.T) {
	paths := []string{stockPath, catalogPath, turnoverPath}
	results := NewBatch(newConverter(newOpener()), 3, logging.Discard()).Run(context.Background(), paths)

	datasets := AggregateAll(results, true)

	require.Len(t, datasets, 3)
	assert.Equal(t, types.KindCashflow, datasets[0].Kind)
	assert.Equal(t, types.KindStock, datasets[1].Kind)
	assert.Equal(t, types.KindCatalog, datasets[2].Kind)
	assert.Equal(t, []string{"Стол", "a;b", "1000", "", "", "", "", ""}, datasets[2].Rows[1])
}

func TestTable(t *testing.T) {
	records := []types.Record{types.StockRecord{Quarter: 20242, Name: "Бумага"}}

	assert.Len(t, Table(types.KindStock, records, true), 2)
	assert.Equal(t, [][]string{{"20242", "", "Бумага", "", ""}}, Table(types.KindStock, records, false))
}
