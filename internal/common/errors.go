// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Input errors.
	ErrInvalidID    = errors.New("invalid id format")
	ErrEmptyUpdate  = errors.New("empty update payload")
	ErrorValidation = errors.New("validation error")
)
