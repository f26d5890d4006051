package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopstack/loanledger/internal/domain"
	"github.com/coopstack/loanledger/internal/export"
	"github.com/coopstack/loanledger/internal/ledgerview"
	"github.com/coopstack/loanledger/internal/logging"
	"github.com/coopstack/loanledger/internal/service"
)

type ledgerViewService interface {
	Grid(ctx context.Context, loanID uuid.UUID) (*ledgerview.Grid, error)
	AccountEntries(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, int, error)
}

type postingService interface {
	RecordEntry(ctx context.Context, req service.PostingRequest) (*domain.LedgerEntry, error)
}

type LedgerHandler struct {
	view     ledgerViewService
	postings postingService
}

func NewLedgerHandler(view ledgerViewService, postings postingService) *LedgerHandler {
	return &LedgerHandler{view: view, postings: postings}
}

type entryDTO struct {
	ID               uuid.UUID       `json:"id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	AccountID        uuid.UUID       `json:"account_id"`
	AccountName      string          `json:"account_name"`
	AccountHistoryID uuid.UUID       `json:"account_history_id"`
	EntryDate        time.Time       `json:"entry_date"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	Balance          decimal.Decimal `json:"balance"`
	Memo             string          `json:"memo,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toEntryDTO(e *domain.LedgerEntry) entryDTO {
	return entryDTO{
		ID:               e.ID,
		LoanID:           e.LoanID,
		AccountID:        e.Account.AccountID,
		AccountName:      e.Account.Name,
		AccountHistoryID: e.Account.HistoryID,
		EntryDate:        e.EntryDate,
		Debit:            e.Debit,
		Credit:           e.Credit,
		Balance:          e.Balance,
		Memo:             e.Memo,
		CreatedAt:        e.CreatedAt,
	}
}

type gridColumnDTO struct {
	AccountID uuid.UUID `json:"account_id"`
	Name      string    `json:"name"`
	HistoryID uuid.UUID `json:"history_id"`
}

type gridCellDTO struct {
	EntryID   uuid.UUID       `json:"entry_id"`
	Synthetic bool            `json:"synthetic"`
	EntryDate *time.Time      `json:"entry_date,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

type gridRowDTO struct {
	UID  uuid.UUID              `json:"uid"`
	Date string                 `json:"date"`
	Cell map[string]gridCellDTO `json:"cells"`
}

type gridDTO struct {
	Columns []gridColumnDTO `json:"columns"`
	Rows    []gridRowDTO    `json:"rows"`
}

func toGridDTO(grid *ledgerview.Grid) gridDTO {
	columns := make([]gridColumnDTO, len(grid.Accounts))
	for i, acct := range grid.Accounts {
		columns[i] = gridColumnDTO{
			AccountID: acct.AccountID,
			Name:      acct.Name,
			HistoryID: acct.HistoryID,
		}
	}

	rows := make([]gridRowDTO, len(grid.Rows))
	for i, row := range grid.Rows {
		cells := make(map[string]gridCellDTO, len(row.Cells))
		for accountID, cell := range row.Cells {
			dto := gridCellDTO{
				EntryID:   cell.EntryID,
				Synthetic: cell.Synthetic,
				Debit:     cell.Debit,
				Credit:    cell.Credit,
				Balance:   cell.Balance,
			}
			if !cell.EntryDate.IsZero() {
				when := cell.EntryDate
				dto.EntryDate = &when
			}
			cells[accountID.String()] = dto
		}
		rows[i] = gridRowDTO{
			UID:  row.UID,
			Date: row.Day.String(),
			Cell: cells,
		}
	}

	return gridDTO{Columns: columns, Rows: rows}
}

// Grid serves the normalized, account-aligned ledger for one loan.
func (h *LedgerHandler) Grid(w http.ResponseWriter, r *http.Request) {
	loanID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	grid, err := h.view.Grid(r.Context(), loanID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build ledger grid", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toGridDTO(grid))
}

// Export streams the normalized grid as an .xlsx attachment.
func (h *LedgerHandler) Export(w http.ResponseWriter, r *http.Request) {
	loanID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	grid, err := h.view.Grid(r.Context(), loanID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build ledger grid", "error", err)
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="loan-ledger-%s.xlsx"`, loanID))

	if err := export.WriteGrid(w, grid); err != nil {
		// Headers are already out; all we can do is log.
		logging.FromContext(r.Context()).Error("failed to write ledger export", "error", err)
	}
}

func (h *LedgerHandler) AccountEntries(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	limit, offset := paginationParams(r)

	entries, total, err := h.view.AccountEntries(r.Context(), accountID, limit, offset)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list entries", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]entryDTO, len(entries))
	for i := range entries {
		dtos[i] = toEntryDTO(&entries[i])
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"entries": dtos,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

type recordEntryRequest struct {
	AccountID string          `json:"account_id"`
	EntryDate string          `json:"entry_date"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

func (r recordEntryRequest) Validate() []FieldError {
	var errs []FieldError

	if r.AccountID == "" {
		errs = append(errs, FieldError{Field: "account_id", Message: "required"})
	} else if _, err := uuid.Parse(r.AccountID); err != nil {
		errs = append(errs, FieldError{Field: "account_id", Message: "must be a valid uuid"})
	}

	if r.EntryDate == "" {
		errs = append(errs, FieldError{Field: "entry_date", Message: "required"})
	} else if _, err := parseEntryDate(r.EntryDate); err != nil {
		errs = append(errs, FieldError{Field: "entry_date", Message: "must be RFC 3339 or YYYY-MM-DD"})
	}

	if r.Debit.IsNegative() || r.Credit.IsNegative() {
		errs = append(errs, FieldError{Field: "amount", Message: "debit and credit must be non-negative"})
	}
	if !r.Debit.IsZero() && !r.Credit.IsZero() {
		errs = append(errs, FieldError{Field: "amount", Message: "only one of debit and credit may be set"})
	}
	if r.Debit.IsZero() && r.Credit.IsZero() {
		errs = append(errs, FieldError{Field: "amount", Message: "a debit or a credit is required"})
	}

	return errs
}

func parseEntryDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (h *LedgerHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	loanID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req recordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	accountID, _ := uuid.Parse(req.AccountID)
	entryDate, _ := parseEntryDate(req.EntryDate)

	entry, err := h.postings.RecordEntry(r.Context(), service.PostingRequest{
		LoanID:    loanID,
		AccountID: accountID,
		EntryDate: entryDate,
		Debit:     req.Debit,
		Credit:    req.Credit,
		Memo:      req.Memo,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to record entry", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toEntryDTO(entry))
}
