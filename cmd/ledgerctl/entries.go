package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopstack/loanledger/internal/domain"
)

// entryRecord is the dump format: ids and dates are plain strings so
// exports from other systems load without cleanup. Anything that does
// not parse degrades instead of failing the run: malformed dates fall
// into the invalid-date bucket, non-uuid account ids map to a stable
// derived uuid so same-account entries still share a column.
type entryRecord struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"account_id"`
	AccountName      string          `json:"account_name"`
	AccountHistoryID string          `json:"account_history_id"`
	EntryDate        string          `json:"entry_date"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	Balance          decimal.Decimal `json:"balance"`
	Memo             string          `json:"memo"`
}

func loadEntries(path string, extraLayouts []string) ([]domain.LedgerEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadEntries: %w", err)
	}

	var records []entryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("loadEntries: %s: %w", path, err)
	}

	entries := make([]domain.LedgerEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.LedgerEntry{
			ID: parseOrFreshID(rec.ID),
			Account: domain.AccountSnapshot{
				AccountID: parseOrDeriveID(rec.AccountID),
				Name:      rec.AccountName,
				HistoryID: parseOrDeriveID(rec.AccountHistoryID),
			},
			EntryDate: parseDate(rec.EntryDate, extraLayouts),
			Debit:     rec.Debit,
			Credit:    rec.Credit,
			Balance:   rec.Balance,
			Memo:      rec.Memo,
		})
	}
	return entries, nil
}

func parseDate(raw string, extraLayouts []string) time.Time {
	layouts := append([]string{time.RFC3339, "2006-01-02"}, extraLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseOrFreshID(raw string) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.New()
}

// parseOrDeriveID maps arbitrary string ids (e.g. "loan-interest-001")
// to a uuid deterministically, so every occurrence of the same foreign
// id lands in the same grid column.
func parseOrDeriveID(raw string) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(raw))
}
