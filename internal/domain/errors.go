package domain

import "errors"

var (
	ErrRecordNotFound        = errors.New("record not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrSelfTransfer          = errors.New("sender and recipient are the same account")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrTransferLimitExceeded = errors.New("amount exceeds the configured transfer limit")
	ErrAmbiguousRecipient    = errors.New("more than one account matches this phone number")
	ErrConflict              = errors.New("a conflicting record already exists")
	ErrStoreUnavailable      = errors.New("store is unavailable")
)

// Kind maps an error chain to a stable machine-readable kind. Callers report
// the kind alongside the human-readable message; new kinds are additive.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidCredentials):
		return "unauthorized"
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrSelfTransfer):
		return "validation"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrTransferLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, ErrAmbiguousRecipient):
		return "ambiguous_recipient"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrStoreUnavailable):
		return "unavailable"
	default:
		return "internal"
	}
}
