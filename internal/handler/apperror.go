package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrLoanNotFound     = &AppError{http.StatusNotFound, "LOAN_NOT_FOUND", "Loan not found"}
	ErrAccountNotFound  = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrLoanExists       = &AppError{http.StatusConflict, "LOAN_ALREADY_EXISTS", "Loan reference already in use"}
	ErrLoanNotActive    = &AppError{http.StatusUnprocessableEntity, "LOAN_NOT_ACTIVE", "Loan is not active"}
	ErrAccountMismatch  = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_MISMATCH", "Account does not belong to this loan"}
	ErrNegativeAmount   = &AppError{http.StatusUnprocessableEntity, "NEGATIVE_AMOUNT", "Debit and credit must be non-negative"}
	ErrTwoSidedEntry    = &AppError{http.StatusUnprocessableEntity, "TWO_SIDED_ENTRY", "Entry cannot carry both a debit and a credit"}
	ErrEmptyEntry       = &AppError{http.StatusUnprocessableEntity, "EMPTY_ENTRY", "Entry must carry a debit or a credit"}
	ErrInvalidEntryDate = &AppError{http.StatusBadRequest, "INVALID_ENTRY_DATE", "Entry date is missing or malformed"}
)
