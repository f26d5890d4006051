package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is one posted movement against a loan account. Debit and
// Credit are both always set, zero when inactive; at most one of the
// two carries the movement. Balance is the account's running balance
// immediately after this entry, computed at posting time.
type LedgerEntry struct {
	ID        uuid.UUID
	LoanID    uuid.UUID
	Account   AccountSnapshot
	EntryDate time.Time
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Balance   decimal.Decimal
	Memo      string
	CreatedAt time.Time
}

// Activity reports whether the entry carries a real movement.
func (e LedgerEntry) Activity() bool {
	return !e.Debit.IsZero() || !e.Credit.IsZero()
}
