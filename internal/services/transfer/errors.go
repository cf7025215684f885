package transfer

import "errors"

// Service errors
var (
	ErrSameAccount      = errors.New("cannot transfer to the same account")
	ErrUnauthorized     = errors.New("not authorized to debit this account")
	ErrSavingRestricted = errors.New("saving accounts may only transfer to the owner's cheque account")
)
