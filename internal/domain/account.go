package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountKind string

const (
	AccountKindPrincipal AccountKind = "principal"
	AccountKindInterest  AccountKind = "interest"
	AccountKindPenalty   AccountKind = "penalty"
	AccountKindFees      AccountKind = "fees"
)

func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindPrincipal, AccountKindInterest, AccountKindPenalty, AccountKindFees:
		return true
	}
	return false
}

// Account is one ledger column of a loan: principal, interest, penalty
// or fees. Display names are versioned through AccountHistory so old
// entries keep the name that applied when they were posted.
type Account struct {
	ID        uuid.UUID
	LoanID    uuid.UUID
	Kind      AccountKind
	Name      string
	CreatedAt time.Time
}

type AccountHistory struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Name      string
	ValidFrom time.Time
}

// AccountSnapshot is the denormalized account view carried on every
// ledger entry. HistoryID pins the account name version that was
// current at posting time.
type AccountSnapshot struct {
	AccountID uuid.UUID
	Name      string
	HistoryID uuid.UUID
}
