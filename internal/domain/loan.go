package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusClosed    LoanStatus = "closed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusClosed, LoanStatusDefaulted:
		return true
	}
	return false
}

type Loan struct {
	ID         uuid.UUID
	MemberName string
	Reference  string
	Principal  decimal.Decimal
	Status     LoanStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
