package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStoreFailure marks an atomic unit that could not commit. Callers may retry.
	ErrStoreFailure = errors.New("store failure")
)
