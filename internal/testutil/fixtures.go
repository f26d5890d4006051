package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopstack/loanledger/internal/domain"
)

func SeedLoan(t *testing.T, db *sql.DB, memberName, reference string) *domain.Loan {
	t.Helper()

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:         uuid.New(),
		MemberName: memberName,
		Reference:  reference,
		Principal:  decimal.RequireFromString("10000"),
		Status:     domain.LoanStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := db.Exec(
		`INSERT INTO loans (id, member_name, reference, principal, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		loan.ID, loan.MemberName, loan.Reference, loan.Principal,
		loan.Status, loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return loan
}

// SeedAccount inserts an account plus its initial history row and
// returns the account with the history id it was created under.
func SeedAccount(t *testing.T, db *sql.DB, loanID uuid.UUID, kind domain.AccountKind, name string) (*domain.Account, uuid.UUID) {
	t.Helper()

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uuid.New(),
		LoanID:    loanID,
		Kind:      kind,
		Name:      name,
		CreatedAt: now,
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, loan_id, kind, name, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.LoanID, account.Kind, account.Name, account.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	historyID := uuid.New()
	_, err = db.Exec(
		`INSERT INTO account_history (id, account_id, name, valid_from)
		 VALUES ($1, $2, $3, $4)`,
		historyID, account.ID, account.Name, now,
	)
	if err != nil {
		t.Fatalf("seed account history: %v", err)
	}

	return account, historyID
}

func CountEntries(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`, accountID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}
	return n
}
