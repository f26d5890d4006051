package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coopstack/loanledger/internal/domain"
)

const accountColumns = `id, loan_id, kind, name, created_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateWithHistory inserts the account together with its first
// account_history row and returns that row's id. Entries posted later
// reference whichever history row is current at posting time.
func (r *AccountRepository) CreateWithHistory(ctx context.Context, tx *sql.Tx, account *domain.Account) (uuid.UUID, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (id, loan_id, kind, name, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.LoanID, account.Kind, account.Name, account.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("CreateWithHistory: account: %w", err)
	}

	historyID := uuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO account_history (id, account_id, name, valid_from)
		VALUES ($1, $2, $3, $4)`,
		historyID, account.ID, account.Name, account.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("CreateWithHistory: history: %w", err)
	}
	return historyID, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE loan_id = $1 ORDER BY created_at`, loanID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByLoanID: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByLoanID: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByLoanID: rows: %w", err)
	}
	return accounts, nil
}

// GetForUpdate locks the account row for the duration of the
// transaction. Posting serializes on this lock so running balances
// never interleave.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

// CurrentHistoryID returns the id of the newest account_history row
// for the account.
func (r *AccountRepository) CurrentHistoryID(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM account_history WHERE account_id = $1
		ORDER BY valid_from DESC LIMIT 1`, accountID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("CurrentHistoryID: %w", domain.ErrAccountNotFound)
		}
		return uuid.Nil, fmt.Errorf("CurrentHistoryID: %w", err)
	}
	return id, nil
}

// Rename updates the display name and opens a new history version.
// Existing entries keep their old history id, so the grid shows the
// name that applied when they were posted.
func (r *AccountRepository) Rename(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, name string, at time.Time) (uuid.UUID, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET name = $2 WHERE id = $1`, accountID, name,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Rename: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return uuid.Nil, fmt.Errorf("Rename: %w", domain.ErrAccountNotFound)
	}

	historyID := uuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO account_history (id, account_id, name, valid_from)
		VALUES ($1, $2, $3, $4)`,
		historyID, accountID, name, at,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Rename: history: %w", err)
	}
	return historyID, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(&a.ID, &a.LoanID, &a.Kind, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
