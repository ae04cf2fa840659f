package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrValidation       = errors.New("invalid input")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrNotFound         = errors.New("resource not found")
	ErrCodeMismatch     = errors.New("verification code does not match")
	ErrDelivery         = errors.New("notification delivery failed")
	ErrPersistence      = errors.New("storage unavailable")

	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("too many requests")
	ErrInternalServer = errors.New("internal server error")
)
