package service

import "errors"

// Mutation errors. Validation and authorization failures are always detected
// before any external side effect.
var (
	ErrValidation          = errors.New("invalid listing input")
	ErrDuplicateSlug       = errors.New("slug already in use")
	ErrNotFoundOrForbidden = errors.New("listing not found")
	ErrPersistence         = errors.New("persistence failure")
)

// Account errors.
var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
)
