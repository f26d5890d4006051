package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopstack/loanledger/internal/domain"
	"github.com/coopstack/loanledger/internal/logging"
)

type loanService interface {
	CreateLoan(ctx context.Context, memberName, reference string, principal decimal.Decimal) (*domain.Loan, error)
	GetLoan(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	ListLoans(ctx context.Context, limit, offset int) ([]domain.Loan, int, error)
	LoanAccounts(ctx context.Context, loanID uuid.UUID) ([]domain.Account, error)
	RenameAccount(ctx context.Context, loanID, accountID uuid.UUID, name string) (*domain.Account, error)
}

type LoanHandler struct {
	loans loanService
}

func NewLoanHandler(loans loanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

type createLoanRequest struct {
	MemberName string          `json:"member_name"`
	Reference  string          `json:"reference"`
	Principal  decimal.Decimal `json:"principal"`
}

func (r createLoanRequest) Validate() []FieldError {
	var errs []FieldError
	if r.MemberName == "" {
		errs = append(errs, FieldError{Field: "member_name", Message: "required"})
	}
	if r.Reference == "" {
		errs = append(errs, FieldError{Field: "reference", Message: "required"})
	}
	if r.Principal.IsNegative() {
		errs = append(errs, FieldError{Field: "principal", Message: "must be non-negative"})
	}
	return errs
}

type loanDTO struct {
	ID         uuid.UUID       `json:"id"`
	MemberName string          `json:"member_name"`
	Reference  string          `json:"reference"`
	Principal  decimal.Decimal `json:"principal"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func toLoanDTO(l *domain.Loan) loanDTO {
	return loanDTO{
		ID:         l.ID,
		MemberName: l.MemberName,
		Reference:  l.Reference,
		Principal:  l.Principal,
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

type accountDTO struct {
	ID        uuid.UUID `json:"id"`
	LoanID    uuid.UUID `json:"loan_id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:        a.ID,
		LoanID:    a.LoanID,
		Kind:      string(a.Kind),
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	loan, err := h.loans.CreateLoan(r.Context(), req.MemberName, req.Reference, req.Principal)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create loan", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toLoanDTO(loan))
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loanID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	loan, err := h.loans.GetLoan(r.Context(), loanID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toLoanDTO(loan))
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	loans, total, err := h.loans.ListLoans(r.Context(), limit, offset)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list loans", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]loanDTO, len(loans))
	for i := range loans {
		dtos[i] = toLoanDTO(&loans[i])
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"loans":  dtos,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *LoanHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	loanID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	accounts, err := h.loans.LoanAccounts(r.Context(), loanID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

type renameAccountRequest struct {
	Name string `json:"name"`
}

func (r renameAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	return errs
}

func (h *LoanHandler) RenameAccount(w http.ResponseWriter, r *http.Request) {
	loanID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	accountID, appErr := idFromPath(r, "accountID")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req renameAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.loans.RenameAccount(r.Context(), loanID, accountID, req.Name)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to rename account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func idFromPath(r *http.Request, name string) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func paginationParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxPageSize)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
