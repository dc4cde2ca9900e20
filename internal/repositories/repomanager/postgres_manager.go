package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/thejw23/simpleauth/internal/config"
	"github.com/thejw23/simpleauth/internal/dbx"
	"github.com/thejw23/simpleauth/internal/migrations"
	"github.com/thejw23/simpleauth/internal/repositories/tokens"
	"github.com/thejw23/simpleauth/internal/repositories/users"
)

type PostgresRepositoryManager struct {
	cols users.Columns
}

func NewPostgresRepositoryManager(cfg *config.Config) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{cols: ColumnsFromConfig(cfg)}
}

// ColumnsFromConfig builds the auth_users alias table from the configured
// field names.
func ColumnsFromConfig(cfg *config.Config) users.Columns {
	return users.Columns{
		PrimaryKey:   cfg.PrimaryKeyColumn,
		Unique:       cfg.UniqueColumn,
		UniqueSecond: cfg.UniqueSecondColumn,
		Password:     cfg.PasswordColumn,
		Roles:        cfg.Roles,
	}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db, m.cols)
}

func (m *PostgresRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return tokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
