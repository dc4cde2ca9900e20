// Package tokens implements the remember-me token store: issuing,
// validating, refreshing, and revoking persisted auto-login tokens.
package tokens

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thejw23/simpleauth/internal/common"
	"github.com/thejw23/simpleauth/internal/dbx"
	"github.com/thejw23/simpleauth/internal/models"
	"github.com/thejw23/simpleauth/internal/randx"
	"github.com/thejw23/simpleauth/internal/repositories/repomanager"
)

// tokenBytes is the number of random bytes per token value; the stored
// hex string is twice as long.
const tokenBytes = 16

// Store manages the token lifecycle on top of the token repository.
// Issue and the rotating variant of Refresh run their delete+insert pairs
// inside a single transaction, so concurrent requests cannot interleave
// between the two statements.
type Store struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	rotate bool
}

// NewStore builds a Store. With rotate set, every refresh mints a new
// token value instead of only extending the expiry of the current one.
func NewStore(db *sql.DB, rm repomanager.RepositoryManager, rotate bool) *Store {
	return &Store{db: db, rm: rm, rotate: rotate}
}

// Issue deletes all existing tokens owned by the account and persists a
// fresh one expiring at now+ttl.
func (s *Store) Issue(ctx context.Context, userID int64, fingerprint string, ttl time.Duration) (*models.AuthToken, error) {
	value, err := randx.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	t := &models.AuthToken{
		Token:     value,
		UserID:    userID,
		UserAgent: fingerprint,
		Expires:   time.Now().Add(ttl),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Tokens(tx)
		if _, err := repo.DeleteAllForUser(ctx, userID); err != nil {
			return err
		}
		return repo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Validate looks a token up by exact value. An expired token is discarded
// on the spot and reported as common.ErrExpired; there is no background
// sweeper, so validation is the only place expired rows die.
func (s *Store) Validate(ctx context.Context, value string) (*models.AuthToken, error) {
	repo := s.rm.Tokens(s.db)

	t, err := repo.Find(ctx, value)
	if err != nil {
		return nil, err
	}

	if t.Expired(time.Now()) {
		if err := repo.Delete(ctx, value); err != nil {
			return nil, err
		}
		return nil, common.ErrExpired
	}

	return t, nil
}

// Refresh extends the token's expiry to now+ttl. By default the token
// value is unchanged (last-write-wins on expiry, so duplicate refreshes
// from racing requests are harmless). With rotation enabled the old row is
// replaced by a fresh value inside one transaction, and the returned token
// carries the new value.
func (s *Store) Refresh(ctx context.Context, t *models.AuthToken, ttl time.Duration) (*models.AuthToken, error) {
	expires := time.Now().Add(ttl)

	if !s.rotate {
		if err := s.rm.Tokens(s.db).UpdateExpiry(ctx, t.Token, expires); err != nil {
			return nil, err
		}
		refreshed := *t
		refreshed.Expires = expires
		return &refreshed, nil
	}

	value, err := randx.MakeRandHexString(tokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	fresh := &models.AuthToken{
		Token:     value,
		UserID:    t.UserID,
		UserAgent: t.UserAgent,
		Expires:   expires,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Tokens(tx)
		if err := repo.Delete(ctx, t.Token); err != nil {
			return err
		}
		return repo.Create(ctx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

// Revoke deletes every token owned by the account.
func (s *Store) Revoke(ctx context.Context, userID int64) error {
	_, err := s.rm.Tokens(s.db).DeleteAllForUser(ctx, userID)
	return err
}

// Delete removes a single token row, used when a presented token is
// structurally untrustworthy (e.g. fingerprint mismatch).
func (s *Store) Delete(ctx context.Context, value string) error {
	return s.rm.Tokens(s.db).Delete(ctx, value)
}
