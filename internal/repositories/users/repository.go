// Package users declares the account repository contract and its Postgres
// implementation.
package users

import (
	"context"

	"github.com/thejw23/simpleauth/internal/models"
)

// Repository defines persistence operations on account records.
// Implementations return common.ErrNotFound when no account matches.
type Repository interface {
	// GetByCredentials looks an account up by the unique identifier and
	// the already-computed password digest in a single query.
	GetByCredentials(ctx context.Context, identifier, digest string) (*models.User, error)

	// GetByIdentifier looks an account up by the unique identifier alone.
	// Used by verifiers whose digests cannot serve as lookup keys.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Exists reports whether an account clashes with the given primary
	// identifier, or with either identifier when secondary is non-empty.
	Exists(ctx context.Context, primary, secondary string) (bool, error)

	// Create inserts the account and returns the new id.
	Create(ctx context.Context, u *models.User) (int64, error)

	// Update persists the mutable account fields.
	Update(ctx context.Context, u *models.User) error

	// Delete removes the account and reports whether a row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}

// Columns is the alias-resolution table mapping the logical auth fields
// onto auth_users column names. It is built once from configuration.
type Columns struct {
	PrimaryKey   string
	Unique       string
	UniqueSecond string
	Password     string
	Roles        []string
}

// DefaultColumns returns the stock auth_users mapping.
func DefaultColumns() Columns {
	return Columns{
		PrimaryKey:   "id",
		Unique:       "email",
		UniqueSecond: "username",
		Password:     "password",
		Roles:        []string{"admin", "active", "moderator"},
	}
}
