package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/ginjaninja78/giftcard-intake/internal/csvparser"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []types.CommittedRecord {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return []types.CommittedRecord{
		{
			ID:        1000000,
			Store:     "Walmart",
			Last4:     "0012",
			Amount:    decimal.RequireFromString("100"),
			AddedBy:   "Sarah Johnson",
			Notes:     "gift, from mom",
			DateAdded: day,
		},
		{
			ID:        1000001,
			Store:     "Target",
			Last4:     "5678",
			Amount:    decimal.RequireFromString("50.5"),
			AddedBy:   "Mike Davis",
			DateAdded: day,
		},
	}
}

func TestTemplateXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TemplateXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)

	// GetRows drops trailing empty cells, so pad back to the full width.
	for i := range rows {
		for len(rows[i]) < len(csvparser.Columns) {
			rows[i] = append(rows[i], "")
		}
	}
	assert.Equal(t, csvparser.TemplateRows(), rows)
}

func TestLedgerCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, LedgerCSV(&buf, sampleRecords()))

	want := "id,store,last4,amount,added_by,notes,date_added\n" +
		"1000000,Walmart,0012,100.00,Sarah Johnson,\"gift, from mom\",2024-03-15\n" +
		"1000001,Target,5678,50.50,Mike Davis,,2024-03-15\n"
	assert.Equal(t, want, buf.String())
}

func TestLedgerCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, LedgerCSV(&buf, nil))
	assert.Equal(t, "id,store,last4,amount,added_by,notes,date_added\n", buf.String())
}

func TestLedgerXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, LedgerXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "Cards", sheet)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, LedgerHeader, rows[0])
	assert.Equal(t, "0012", rows[1][2])
	assert.Equal(t, "gift, from mom", rows[1][5])

	raw, err := f.GetCellValue(sheet, "D3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "50.5", raw)
}
