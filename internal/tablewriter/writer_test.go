package tablewriter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/ledgerx/internal/converter"
	"github.com/ginjaninja78/ledgerx/internal/types"
)

func stockDataset() *converter.Dataset {
	return &converter.Dataset{
		Kind:      types.KindStock,
		HasHeader: true,
		Files:     1,
		Rows: [][]string{
			types.KindStock.Header(),
			{"20242", "105.34", "Бумага, офисная", "5", "250.5"},
			{"20242", "105.34", "Ручка", "", ""},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteCSV(&buf, stockDataset().Rows, DefaultOptions()))

	assert.Equal(t,
		"Quarter,Category,Name,End Amount,End Cost\n"+
			"20242,105.34,\"Бумага, офисная\",5,250.5\n"+
			"20242,105.34,Ручка,,\n",
		buf.String())
}

func TestWriteCSVDelimiter(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Delimiter = "\\t"

	require.NoError(t, WriteCSV(&buf, [][]string{{"a", "b"}}, opts))

	assert.Equal(t, "a\tb\n", buf.String())
}

func TestWriteCSVWindows1251(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Encoding = "windows-1251"
	opts.Delimiter = ";"

	require.NoError(t, WriteCSV(&buf, [][]string{{"Стол", "1"}}, opts))

	decoded, err := charmap.Windows1251.NewDecoder().Bytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Стол;1\n", string(decoded))
	assert.Len(t, buf.Bytes(), len("Стол;1\n")-4)
}

func TestWriteCSVUnsupportedEncoding(t *testing.T) {
	opts := DefaultOptions()
	opts.Encoding = "koi8-r"

	assert.Error(t, WriteCSV(&bytes.Buffer{}, nil, opts))
}

func TestWriteFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stock.csv")

	require.NoError(t, WriteFile(path, stockDataset(), DefaultOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ручка")
}

func TestWriteFileXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.xlsx")
	opts := DefaultOptions()
	opts.Format = "xlsx"
	assert.Equal(t, ".xlsx", opts.Ext())

	require.NoError(t, WriteFile(path, stockDataset(), opts))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "stock", f.GetSheetName(0))

	header, err := f.GetCellValue("stock", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Quarter", header)

	name, err := f.GetCellValue("stock", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Бумага, офисная", name)

	cost, err := f.GetCellValue("stock", "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "250.5", cost)

	cellType, err := f.GetCellType("stock", "E2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)
}
