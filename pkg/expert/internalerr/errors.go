package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidFact   = errors.New("invalid fact")
	ErrInvalidRule   = errors.New("invalid rule")
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid configuration")
)
