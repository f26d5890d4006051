// Package export renders normalized ledger grids as spreadsheets for
// back-office download.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/coopstack/loanledger/internal/ledgerview"
)

const SheetName = "Loan Ledger"

// ContentType is the MIME type for .xlsx downloads.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteGrid writes the grid as an .xlsx workbook: one date column,
// then debit/credit/balance columns per account, with the account name
// merged across its three columns. Synthetic cells leave debit and
// credit blank and show only the carried balance.
func WriteGrid(w io.Writer, grid *ledgerview.Grid) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("WriteGrid: %w", err)
	}

	s := &sheet{f: f}
	s.set("A1", "Date")
	s.merge("A1", "A2")

	for i, acct := range grid.Accounts {
		start := 2 + i*3
		s.set(axis(start, 1), acct.Name)
		s.merge(axis(start, 1), axis(start+2, 1))
		s.set(axis(start, 2), "Debit")
		s.set(axis(start+1, 2), "Credit")
		s.set(axis(start+2, 2), "Balance")
	}

	for n, row := range grid.Rows {
		excelRow := n + 3
		s.set(axis(1, excelRow), row.Day.String())

		for i, acct := range grid.Accounts {
			cell := row.Cells[acct.AccountID]
			start := 2 + i*3
			if !cell.Synthetic {
				s.set(axis(start, excelRow), cell.Debit.InexactFloat64())
				s.set(axis(start+1, excelRow), cell.Credit.InexactFloat64())
			}
			s.set(axis(start+2, excelRow), cell.Balance.InexactFloat64())
		}
	}

	if s.err != nil {
		return fmt.Errorf("WriteGrid: %w", s.err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("WriteGrid: %w", err)
	}
	return nil
}

func axis(col, row int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Sprintf("A%d", row)
	}
	return fmt.Sprintf("%s%d", name, row)
}

// sheet collects the first write error so the grid loop stays readable.
type sheet struct {
	f   *excelize.File
	err error
}

func (s *sheet) set(axis string, value any) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellValue(SheetName, axis, value)
}

func (s *sheet) merge(from, to string) {
	if s.err != nil {
		return
	}
	s.err = s.f.MergeCell(SheetName, from, to)
}
