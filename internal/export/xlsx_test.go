package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/coopstack/loanledger/internal/domain"
	"github.com/coopstack/loanledger/internal/ledgerview"
)

func TestWriteGrid(t *testing.T) {
	principal := domain.AccountSnapshot{AccountID: uuid.New(), Name: "Loan Principal", HistoryID: uuid.New()}
	interest := domain.AccountSnapshot{AccountID: uuid.New(), Name: "Loan Interest", HistoryID: uuid.New()}

	date := func(v string) time.Time {
		parsed, err := time.Parse(time.RFC3339, v)
		require.NoError(t, err)
		return parsed
	}
	dec := decimal.RequireFromString

	grid := ledgerview.NormalizeGrid([]domain.LedgerEntry{
		{
			ID: uuid.New(), Account: principal,
			EntryDate: date("2025-03-01T08:00:00Z"),
			Debit:     dec("5000"), Credit: decimal.Zero, Balance: dec("5000"),
		},
		{
			ID: uuid.New(), Account: interest,
			EntryDate: date("2025-03-25T10:00:00Z"),
			Debit:     decimal.Zero, Credit: dec("1000"), Balance: dec("1250"),
		},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, &grid))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, SheetName, f.GetSheetName(0))

	cell := func(axis string) string {
		v, err := f.GetCellValue(SheetName, axis)
		require.NoError(t, err)
		return v
	}

	// Header rows: date column plus a merged name banner over each
	// account's debit/credit/balance triple.
	assert.Equal(t, "Date", cell("A1"))
	assert.Equal(t, "Loan Principal", cell("B1"))
	assert.Equal(t, "Loan Interest", cell("E1"))
	assert.Equal(t, "Debit", cell("B2"))
	assert.Equal(t, "Credit", cell("C2"))
	assert.Equal(t, "Balance", cell("D2"))

	merged, err := f.GetMergeCells(SheetName)
	require.NoError(t, err)
	ranges := make(map[string]bool, len(merged))
	for _, m := range merged {
		ranges[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}
	assert.True(t, ranges["A1:A2"])
	assert.True(t, ranges["B1:D1"])
	assert.True(t, ranges["E1:G1"])

	// First data row: the principal disbursement on the 1st. Interest
	// had no activity yet, so its cell is synthetic with a zero balance
	// and no debit or credit.
	assert.Equal(t, "2025-03-01", cell("A3"))
	assert.Equal(t, "5000", cell("B3"))
	assert.Equal(t, "0", cell("C3"))
	assert.Equal(t, "5000", cell("D3"))
	assert.Empty(t, cell("E3"))
	assert.Empty(t, cell("F3"))

	// Second data row: the interest payment on the 25th. Principal is
	// carried forward through a synthetic cell.
	assert.Equal(t, "2025-03-25", cell("A4"))
	assert.Empty(t, cell("B4"))
	assert.Empty(t, cell("C4"))
	assert.Equal(t, "5000", cell("D4"))
	assert.Equal(t, "0", cell("E4"))
	assert.Equal(t, "1000", cell("F4"))
	assert.Equal(t, "1250", cell("G4"))
}

func TestWriteGridEmpty(t *testing.T) {
	grid := ledgerview.NormalizeGrid(nil)

	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, &grid))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", v)
}
