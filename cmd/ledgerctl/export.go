package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coopstack/loanledger/internal/export"
	"github.com/coopstack/loanledger/internal/ledgerview"
)

var (
	exportIn  string
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Normalize a ledger entry dump and write it as a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCLIConfig(cfgFile)
		if err != nil {
			return err
		}

		entries, err := loadEntries(exportIn, cfg.DateLayouts)
		if err != nil {
			return err
		}

		grid := ledgerview.NormalizeGrid(entries)

		dest := cfg.resolveOut(exportOut)
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		defer f.Close()

		if err := export.WriteGrid(f, &grid); err != nil {
			return fmt.Errorf("export: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows across %d columns to %s\n",
			len(grid.Rows), len(grid.Accounts), dest)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportIn, "in", "", "entries JSON file (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "ledger.xlsx", "output .xlsx file")
	exportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
}
