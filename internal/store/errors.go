package store

import "errors"

var (
	// ErrDuplicateEmail is returned when a signup collides with an
	// existing user's email.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrNotFound is returned by owner-scoped mutations when the row does
	// not exist or belongs to another owner; callers cannot tell the two
	// apart.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientBalance is returned when a redemption's cost exceeds
	// the owner's current balance. The ledger is left untouched.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
