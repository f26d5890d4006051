package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/coopstack/loanledger/internal/ledgerview"
)

var (
	normalizeIn  string
	normalizeOut string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a ledger entry dump into a display grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCLIConfig(cfgFile)
		if err != nil {
			return err
		}

		entries, err := loadEntries(normalizeIn, cfg.DateLayouts)
		if err != nil {
			return err
		}

		grid := ledgerview.NormalizeGrid(entries)
		out, err := json.MarshalIndent(toGridOutput(grid), "", "  ")
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		out = append(out, '\n')

		if normalizeOut == "" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}

		dest := cfg.resolveOut(normalizeOut)
		if err := os.WriteFile(dest, out, 0o644); err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows across %d columns to %s\n",
			len(grid.Rows), len(grid.Accounts), dest)
		return nil
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeIn, "in", "", "entries JSON file (required)")
	normalizeCmd.Flags().StringVar(&normalizeOut, "out", "", "output file (default stdout)")
	normalizeCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(normalizeCmd)
}

type gridColumnOutput struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	HistoryID string `json:"history_id"`
}

type gridCellOutput struct {
	EntryID   string          `json:"entry_id"`
	Synthetic bool            `json:"synthetic"`
	EntryDate string          `json:"entry_date,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

type gridRowOutput struct {
	UID   string                    `json:"uid"`
	Date  string                    `json:"date"`
	Cells map[string]gridCellOutput `json:"cells"`
}

type gridOutput struct {
	Columns []gridColumnOutput `json:"columns"`
	Rows    []gridRowOutput    `json:"rows"`
}

func toGridOutput(grid ledgerview.Grid) gridOutput {
	columns := make([]gridColumnOutput, len(grid.Accounts))
	for i, acct := range grid.Accounts {
		columns[i] = gridColumnOutput{
			AccountID: acct.AccountID.String(),
			Name:      acct.Name,
			HistoryID: acct.HistoryID.String(),
		}
	}

	rows := make([]gridRowOutput, len(grid.Rows))
	for i, row := range grid.Rows {
		cells := make(map[string]gridCellOutput, len(row.Cells))
		for accountID, cell := range row.Cells {
			out := gridCellOutput{
				EntryID:   cell.EntryID.String(),
				Synthetic: cell.Synthetic,
				Debit:     cell.Debit,
				Credit:    cell.Credit,
				Balance:   cell.Balance,
			}
			if !cell.EntryDate.IsZero() {
				out.EntryDate = cell.EntryDate.Format(time.RFC3339)
			}
			cells[accountID.String()] = out
		}
		rows[i] = gridRowOutput{
			UID:   row.UID.String(),
			Date:  row.Day.String(),
			Cells: cells,
		}
	}

	return gridOutput{Columns: columns, Rows: rows}
}
