package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thejw23/simpleauth/internal/common"
	"github.com/thejw23/simpleauth/internal/dbx"
	"github.com/thejw23/simpleauth/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.AuthToken) error {
	query :=
		`INSERT INTO auth_user_tokens (token, user_id, user_agent, expires)
         VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, t.Token, t.UserID, t.UserAgent, t.Expires)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.AuthToken, error) {
	query :=
		`SELECT token, user_id, user_agent, expires, created_at
		 FROM auth_user_tokens WHERE token = $1`

	t := &models.AuthToken{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&t.Token, &t.UserID, &t.UserAgent, &t.Expires, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) UpdateExpiry(ctx context.Context, token string, expires time.Time) error {
	query := `UPDATE auth_user_tokens SET expires = $1 WHERE token = $2`

	_, err := r.db.ExecContext(ctx, query, expires, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM auth_user_tokens WHERE token = $1`

	_, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM auth_user_tokens WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}
