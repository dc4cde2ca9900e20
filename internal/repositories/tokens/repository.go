// Package tokens declares the repository contract for remember-me tokens
// in persistent storage.
package tokens

import (
	"context"
	"time"

	"github.com/thejw23/simpleauth/internal/models"
)

// Repository defines persistence operations on remember-me tokens.
type Repository interface {
	// Create stores a new token row.
	Create(ctx context.Context, t *models.AuthToken) error

	// Find looks a token up by its opaque value. Exact match only;
	// returns common.ErrNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.AuthToken, error)

	// UpdateExpiry moves the token's expiry without changing its value.
	UpdateExpiry(ctx context.Context, token string, expires time.Time) error

	// Delete removes one token row. Deleting a non-existent token is not
	// an error.
	Delete(ctx context.Context, token string) error

	// DeleteAllForUser removes every token owned by the account and
	// returns the number of rows deleted.
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
}
