package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopstack/loanledger/internal/domain"
	"github.com/coopstack/loanledger/internal/logging"
)

// Every loan is provisioned with the standard charge accounts; the
// ledger grid renders one column per account.
var defaultAccounts = []struct {
	kind domain.AccountKind
	name string
}{
	{domain.AccountKindPrincipal, "Loan Principal"},
	{domain.AccountKindInterest, "Loan Interest"},
	{domain.AccountKindPenalty, "Penalty Charges"},
	{domain.AccountKindFees, "Service Fees"},
}

type LoanService struct {
	loans    loanRepository
	accounts accountRepository
	db       txBeginner
}

func NewLoanService(loans loanRepository, accounts accountRepository, db txBeginner) *LoanService {
	return &LoanService{loans: loans, accounts: accounts, db: db}
}

// CreateLoan opens the loan record and its charge accounts in one
// transaction.
func (s *LoanService) CreateLoan(ctx context.Context, memberName, reference string, principal decimal.Decimal) (*domain.Loan, error) {
	log := logging.FromContext(ctx)

	if principal.IsNegative() {
		return nil, fmt.Errorf("CreateLoan: %w", domain.ErrNegativeAmount)
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:         uuid.New(),
		MemberName: memberName,
		Reference:  reference,
		Principal:  principal,
		Status:     domain.LoanStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateLoan: %w", err)
	}
	defer tx.Rollback()

	if err := s.loans.Create(ctx, tx, loan); err != nil {
		return nil, fmt.Errorf("CreateLoan: %w", err)
	}

	for _, def := range defaultAccounts {
		account := &domain.Account{
			ID:        uuid.New(),
			LoanID:    loan.ID,
			Kind:      def.kind,
			Name:      def.name,
			CreatedAt: now,
		}
		if _, err := s.accounts.CreateWithHistory(ctx, tx, account); err != nil {
			return nil, fmt.Errorf("CreateLoan: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("CreateLoan: commit: %w", err)
	}

	log.Info("loan created",
		"loan_id", loan.ID,
		"reference", loan.Reference,
		"principal", loan.Principal,
	)

	return loan, nil
}

func (s *LoanService) GetLoan(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetLoan: %w", err)
	}
	return loan, nil
}

func (s *LoanService) ListLoans(ctx context.Context, limit, offset int) ([]domain.Loan, int, error) {
	loans, total, err := s.loans.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListLoans: %w", err)
	}
	return loans, total, nil
}

func (s *LoanService) LoanAccounts(ctx context.Context, loanID uuid.UUID) ([]domain.Account, error) {
	if _, err := s.loans.GetByID(ctx, loanID); err != nil {
		return nil, fmt.Errorf("LoanAccounts: %w", err)
	}
	accounts, err := s.accounts.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("LoanAccounts: %w", err)
	}
	return accounts, nil
}

// RenameAccount changes the display name going forward. Entries
// already posted keep the history version they were posted under.
func (s *LoanService) RenameAccount(ctx context.Context, loanID, accountID uuid.UUID, name string) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("RenameAccount: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, fmt.Errorf("RenameAccount: %w", err)
	}
	if account.LoanID != loanID {
		return nil, fmt.Errorf("RenameAccount: %w", domain.ErrAccountMismatch)
	}

	if _, err := s.accounts.Rename(ctx, tx, accountID, name, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("RenameAccount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("RenameAccount: commit: %w", err)
	}

	log.Info("account renamed", "account_id", accountID, "name", name)

	account.Name = name
	return account, nil
}
