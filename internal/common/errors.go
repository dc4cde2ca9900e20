// Package common defines shared sentinel errors used across the auth
// core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation / input errors.
	ErrValidation = errors.New("validation error")

	// Account or token past its validity window.
	ErrExpired = errors.New("expired")

	// Password or fingerprint mismatch.
	ErrMismatch = errors.New("mismatch")

	// Duplicate unique identifier on creation.
	ErrConflict = errors.New("already exists")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)
