package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopstack/loanledger/internal/domain"
)

type loanRepository interface {
	Create(ctx context.Context, tx *sql.Tx, loan *domain.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	List(ctx context.Context, limit, offset int) ([]domain.Loan, int, error)
}

type accountRepository interface {
	CreateWithHistory(ctx context.Context, tx *sql.Tx, account *domain.Account) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	CurrentHistoryID(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) (uuid.UUID, error)
	Rename(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, name string, at time.Time) (uuid.UUID, error)
}

type ledgerRepository interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.LedgerEntry, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, int, error)
	LastBalance(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) (decimal.Decimal, error)
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
