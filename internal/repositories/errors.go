package repositories

import "errors"

// Sentinel errors shared by every store implementation.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateNumber    = errors.New("account number already exists")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
