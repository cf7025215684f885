package account

import "errors"

// Service errors
var (
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountHasBalance   = errors.New("account balance must be zero before deletion")
)
