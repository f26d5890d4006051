package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Back-office utilities for loan ledger dumps",
	Long: `ledgerctl works on JSON dumps of loan ledger entries, offline.

It runs the same normalization the API serves: entries are grouped by
calendar day, every account column is padded to the day's payment
count, and balances are carried forward through inactive columns.

  ledgerctl normalize --in entries.json --out grid.json
  ledgerctl export --in entries.json --out ledger.xlsx`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a ledgerctl config file (YAML)")
}
