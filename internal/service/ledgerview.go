package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coopstack/loanledger/internal/domain"
	"github.com/coopstack/loanledger/internal/ledgerview"
)

// LedgerViewService serves the normalized ledger grid and raw entry
// listings for the back-office table.
type LedgerViewService struct {
	loans   loanRepository
	entries ledgerRepository
}

func NewLedgerViewService(loans loanRepository, entries ledgerRepository) *LedgerViewService {
	return &LedgerViewService{loans: loans, entries: entries}
}

// Grid loads the loan's full entry set and normalizes it. The result
// carries the column roster alongside the rows so consumers know which
// account ids to render.
func (s *LedgerViewService) Grid(ctx context.Context, loanID uuid.UUID) (*ledgerview.Grid, error) {
	if _, err := s.loans.GetByID(ctx, loanID); err != nil {
		return nil, fmt.Errorf("Grid: %w", err)
	}

	entries, err := s.entries.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("Grid: %w", err)
	}

	grid := ledgerview.NormalizeGrid(entries)
	return &grid, nil
}

func (s *LedgerViewService) AccountEntries(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, int, error) {
	entries, total, err := s.entries.GetByAccountID(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("AccountEntries: %w", err)
	}
	return entries, total, nil
}
