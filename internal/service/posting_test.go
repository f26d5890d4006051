package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/coopstack/loanledger/internal/domain"
)

type stubLoanRepo struct {
	loan *domain.Loan
	err  error
}

func (s *stubLoanRepo) Create(_ context.Context, _ *sql.Tx, _ *domain.Loan) error {
	return nil
}

func (s *stubLoanRepo) GetByID(_ context.Context, _ uuid.UUID) (*domain.Loan, error) {
	return s.loan, s.err
}

func (s *stubLoanRepo) List(_ context.Context, _, _ int) ([]domain.Loan, int, error) {
	return nil, 0, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecordEntryValidation(t *testing.T) {
	activeLoan := &domain.Loan{ID: uuid.New(), Status: domain.LoanStatusActive}
	closedLoan := &domain.Loan{ID: uuid.New(), Status: domain.LoanStatusClosed}
	when := time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		loans   *stubLoanRepo
		req     PostingRequest
		wantErr error
	}{
		{
			name:    "negative debit",
			loans:   &stubLoanRepo{loan: activeLoan},
			req:     PostingRequest{Debit: dec("-10"), Credit: decimal.Zero, EntryDate: when},
			wantErr: domain.ErrNegativeAmount,
		},
		{
			name:    "negative credit",
			loans:   &stubLoanRepo{loan: activeLoan},
			req:     PostingRequest{Debit: decimal.Zero, Credit: dec("-10"), EntryDate: when},
			wantErr: domain.ErrNegativeAmount,
		},
		{
			name:    "both debit and credit",
			loans:   &stubLoanRepo{loan: activeLoan},
			req:     PostingRequest{Debit: dec("10"), Credit: dec("10"), EntryDate: when},
			wantErr: domain.ErrTwoSidedEntry,
		},
		{
			name:    "neither debit nor credit",
			loans:   &stubLoanRepo{loan: activeLoan},
			req:     PostingRequest{Debit: decimal.Zero, Credit: decimal.Zero, EntryDate: when},
			wantErr: domain.ErrEmptyEntry,
		},
		{
			name:    "zero entry date",
			loans:   &stubLoanRepo{loan: activeLoan},
			req:     PostingRequest{Debit: dec("10"), Credit: decimal.Zero},
			wantErr: domain.ErrInvalidDate,
		},
		{
			name:    "loan not found",
			loans:   &stubLoanRepo{err: domain.ErrLoanNotFound},
			req:     PostingRequest{Debit: dec("10"), Credit: decimal.Zero, EntryDate: when},
			wantErr: domain.ErrLoanNotFound,
		},
		{
			name:    "loan not active",
			loans:   &stubLoanRepo{loan: closedLoan},
			req:     PostingRequest{Debit: dec("10"), Credit: decimal.Zero, EntryDate: when},
			wantErr: domain.ErrLoanClosed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewPostingService(tc.loans, nil, nil, nil)
			_, err := svc.RecordEntry(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
