package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/thejw23/simpleauth/internal/common"
	"github.com/thejw23/simpleauth/internal/dbx"
	"github.com/thejw23/simpleauth/internal/models"
)

const tableName = "auth_users"

type PostgresRepository struct {
	db         dbx.DBTX
	cols       Columns
	selectList string
}

func NewPostgresRepository(db dbx.DBTX, cols Columns) *PostgresRepository {
	fixed := []string{
		cols.PrimaryKey, cols.Unique, cols.UniqueSecond, cols.Password,
		"logins", "active_to", "ip_address", "last_ip_address",
		"time_stamp", "last_time_stamp", "time_stamp_created",
	}
	return &PostgresRepository{
		db:         db,
		cols:       cols,
		selectList: strings.Join(append(fixed, cols.Roles...), ", "),
	}
}

func (r *PostgresRepository) GetByCredentials(ctx context.Context, identifier, digest string) (*models.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		r.selectList, tableName, r.cols.Unique, r.cols.Password,
	)
	return r.scanUser(r.db.QueryRowContext(ctx, query, identifier, digest))
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1`,
		r.selectList, tableName, r.cols.Unique,
	)
	return r.scanUser(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1`,
		r.selectList, tableName, r.cols.PrimaryKey,
	)
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Exists(ctx context.Context, primary, secondary string) (bool, error) {
	var query string
	var args []any

	if secondary == "" {
		query = fmt.Sprintf(
			`SELECT count(*) FROM %s WHERE %s = $1`,
			tableName, r.cols.Unique,
		)
		args = []any{primary}
	} else {
		query = fmt.Sprintf(
			`SELECT count(*) FROM %s WHERE %s = $1 OR %s = $2`,
			tableName, r.cols.Unique, r.cols.UniqueSecond,
		)
		args = []any{primary, secondary}
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	insertCols := []string{
		r.cols.Unique, r.cols.UniqueSecond, r.cols.Password,
		"logins", "active_to", "ip_address", "last_ip_address",
		"time_stamp", "last_time_stamp",
	}
	args := []any{
		u.Email, u.Username, u.Password,
		u.Logins, u.ActiveTo, u.IPAddress, u.LastIPAddress,
		u.TimeStamp, u.LastTimeStamp,
	}
	for _, name := range r.cols.Roles {
		insertCols = append(insertCols, name)
		args = append(args, u.Flags[name])
	}

	placeholders := make([]string, len(insertCols))
	for i := range insertCols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		tableName, strings.Join(insertCols, ", "),
		strings.Join(placeholders, ", "), r.cols.PrimaryKey,
	)

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	u.ID = id
	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u *models.User) error {
	setCols := []string{
		r.cols.Password,
		"logins", "active_to", "ip_address", "last_ip_address",
		"time_stamp", "last_time_stamp",
	}
	args := []any{
		u.Password,
		u.Logins, u.ActiveTo, u.IPAddress, u.LastIPAddress,
		u.TimeStamp, u.LastTimeStamp,
	}
	for _, name := range r.cols.Roles {
		setCols = append(setCols, name)
		args = append(args, u.Flags[name])
	}

	assignments := make([]string, len(setCols))
	for i, name := range setCols {
		assignments[i] = fmt.Sprintf("%s = $%d", name, i+1)
	}
	args = append(args, u.ID)

	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE %s = $%d`,
		tableName, strings.Join(assignments, ", "),
		r.cols.PrimaryKey, len(args),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE %s = $1`,
		tableName, r.cols.PrimaryKey,
	)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected > 0, nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{Flags: make(map[string]int64, len(r.cols.Roles))}

	dest := []any{
		&u.ID, &u.Email, &u.Username, &u.Password,
		&u.Logins, &u.ActiveTo, &u.IPAddress, &u.LastIPAddress,
		&u.TimeStamp, &u.LastTimeStamp, &u.CreatedAt,
	}
	roleVals := make([]int64, len(r.cols.Roles))
	for i := range roleVals {
		dest = append(dest, &roleVals[i])
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i, name := range r.cols.Roles {
		u.Flags[name] = roleVals[i]
	}
	return u, nil
}
