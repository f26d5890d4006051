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

type PostingRequest struct {
	LoanID    uuid.UUID
	AccountID uuid.UUID
	EntryDate time.Time
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// PostingService records ledger entries and maintains each account's
// running balance. The balance written here is what the normalizer
// later arranges; it is never recomputed downstream.
type PostingService struct {
	loans    loanRepository
	accounts accountRepository
	entries  ledgerRepository
	db       txBeginner
}

func NewPostingService(loans loanRepository, accounts accountRepository, entries ledgerRepository, db txBeginner) *PostingService {
	return &PostingService{loans: loans, accounts: accounts, entries: entries, db: db}
}

// RecordEntry posts one movement. The account row is locked for the
// duration of the transaction, so concurrent postings against the same
// account serialize and balances never interleave:
// balance = previous balance + debit - credit.
func (s *PostingService) RecordEntry(ctx context.Context, req PostingRequest) (*domain.LedgerEntry, error) {
	log := logging.FromContext(ctx)

	if err := validatePosting(req); err != nil {
		return nil, fmt.Errorf("RecordEntry: %w", err)
	}

	loan, err := s.loans.GetByID(ctx, req.LoanID)
	if err != nil {
		return nil, fmt.Errorf("RecordEntry: %w", err)
	}
	if loan.Status != domain.LoanStatusActive {
		return nil, fmt.Errorf("RecordEntry: %w", domain.ErrLoanClosed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("RecordEntry: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("RecordEntry: %w", err)
	}
	if account.LoanID != req.LoanID {
		return nil, fmt.Errorf("RecordEntry: %w", domain.ErrAccountMismatch)
	}

	historyID, err := s.accounts.CurrentHistoryID(ctx, tx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("RecordEntry: %w", err)
	}

	previous, err := s.entries.LastBalance(ctx, tx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("RecordEntry: %w", err)
	}

	entry := &domain.LedgerEntry{
		ID:     uuid.New(),
		LoanID: req.LoanID,
		Account: domain.AccountSnapshot{
			AccountID: account.ID,
			Name:      account.Name,
			HistoryID: historyID,
		},
		EntryDate: req.EntryDate,
		Debit:     req.Debit,
		Credit:    req.Credit,
		Balance:   previous.Add(req.Debit).Sub(req.Credit),
		Memo:      req.Memo,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.entries.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("RecordEntry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("RecordEntry: commit: %w", err)
	}

	log.Info("ledger entry posted",
		"entry_id", entry.ID,
		"loan_id", req.LoanID,
		"account_id", req.AccountID,
		"debit", req.Debit,
		"credit", req.Credit,
		"balance", entry.Balance,
	)

	return entry, nil
}

func validatePosting(req PostingRequest) error {
	if req.Debit.IsNegative() || req.Credit.IsNegative() {
		return fmt.Errorf("validatePosting: %w", domain.ErrNegativeAmount)
	}
	if !req.Debit.IsZero() && !req.Credit.IsZero() {
		return fmt.Errorf("validatePosting: %w", domain.ErrTwoSidedEntry)
	}
	if req.Debit.IsZero() && req.Credit.IsZero() {
		return fmt.Errorf("validatePosting: %w", domain.ErrEmptyEntry)
	}
	if req.EntryDate.IsZero() {
		return fmt.Errorf("validatePosting: %w", domain.ErrInvalidDate)
	}
	return nil
}
