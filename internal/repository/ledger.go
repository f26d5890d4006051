package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopstack/loanledger/internal/domain"
)

// Entries are always read joined with account_history so each one
// carries the account name that applied when it was posted.
const ledgerColumns = `e.id, e.loan_id, e.account_id, h.name, e.account_history_id,
	e.entry_date, e.debit, e.credit, e.balance, e.memo, e.created_at`

const ledgerFrom = ` FROM ledger_entries e
	JOIN account_history h ON h.id = e.account_history_id`

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (
			id, loan_id, account_id, account_history_id, entry_date,
			debit, credit, balance, memo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.LoanID, entry.Account.AccountID, entry.Account.HistoryID,
		entry.EntryDate, entry.Debit, entry.Credit, entry.Balance,
		entry.Memo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetByLoanID returns the loan's full entry set, the normalizer's
// input. No pagination: the grid needs every entry to pad and carry
// balances correctly.
func (r *LedgerRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+ledgerFrom+`
		WHERE e.loan_id = $1 ORDER BY e.entry_date, e.created_at`, loanID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByLoanID: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByLoanID: scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByLoanID: rows: %w", err)
	}
	return entries, nil
}

func (r *LedgerRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`, accountID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("GetByAccountID: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+ledgerFrom+`
		WHERE e.account_id = $1 ORDER BY e.entry_date DESC, e.created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("GetByAccountID: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("GetByAccountID: scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("GetByAccountID: rows: %w", err)
	}
	return entries, total, nil
}

// LastBalance returns the account's running balance after its most
// recent entry, zero if the account has none yet. Callers must hold
// the account row lock (AccountRepository.GetForUpdate) in the same
// transaction.
func (r *LedgerRepository) LastBalance(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx,
		`SELECT balance FROM ledger_entries WHERE account_id = $1
		ORDER BY created_at DESC, entry_date DESC LIMIT 1`, accountID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("LastBalance: %w", err)
	}
	return balance, nil
}

func scanLedgerEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := s.Scan(
		&e.ID, &e.LoanID, &e.Account.AccountID, &e.Account.Name, &e.Account.HistoryID,
		&e.EntryDate, &e.Debit, &e.Credit, &e.Balance, &e.Memo, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
