package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrLoanClosed      = errors.New("loan is not active")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountMismatch = errors.New("account does not belong to loan")
	ErrLoanExists      = errors.New("loan reference already in use")
	ErrNegativeAmount  = errors.New("debit and credit must be non-negative")
	ErrTwoSidedEntry   = errors.New("entry cannot carry both a debit and a credit")
	ErrEmptyEntry      = errors.New("entry must carry a debit or a credit")
	ErrInvalidDate     = errors.New("invalid entry date")
	ErrInvalidRequest  = errors.New("invalid request")
)
