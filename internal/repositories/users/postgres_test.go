package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/thejw23/simpleauth/internal/common"
	"github.com/thejw23/simpleauth/internal/models"
)

func newTestUser() *models.User {
	return &models.User{
		Email:    "joe@example.com",
		Username: "joe",
		Password: "digest",
		Flags:    map[string]int64{"active": 1},
	}
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db, DefaultColumns()), mock, db
}

func userColumns() []string {
	return []string{
		"id", "email", "username", "password",
		"logins", "active_to", "ip_address", "last_ip_address",
		"time_stamp", "last_time_stamp", "time_stamp_created",
		"admin", "active", "moderator",
	}
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns()).
		AddRow(
			int64(7), "joe@example.com", "joe", "digest",
			int64(3), "", "192.0.2.1", "192.0.2.2",
			"2024-03-15 10:30:45", "2024-03-14 09:00:00", time.Now(),
			int64(0), int64(1), int64(0),
		)
}

func TestGetByCredentials_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+auth_users\s+WHERE\s+email\s*=\s*\$1\s+AND\s+password\s*=\s*\$2\s*$`

	mock.ExpectQuery(q).
		WithArgs("joe@example.com", "digest").
		WillReturnRows(userRow())

	u, err := repo.GetByCredentials(context.Background(), "joe@example.com", "digest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 7 || u.Email != "joe@example.com" || u.Flags["active"] != 1 {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByCredentials_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+auth_users\s+WHERE\s+email\s*=\s*\$1\s+AND\s+password\s*=\s*\$2\s*$`

	mock.ExpectQuery(q).
		WithArgs("joe@example.com", "wrong").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByCredentials(context.Background(), "joe@example.com", "wrong")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+auth_users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnRows(userRow())

	u, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.Loaded() || u.Username != "joe" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+auth_users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnError(errors.New("db down"))

	_, err := repo.GetByID(context.Background(), 7)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExists_PrimaryOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+count\(\*\)\s+FROM\s+auth_users\s+WHERE\s+email\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("joe@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	exists, err := repo.Exists(context.Background(), "joe@example.com", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("want exists = true")
	}
}

func TestExists_EitherIdentifier(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+count\(\*\)\s+FROM\s+auth_users\s+WHERE\s+email\s*=\s*\$1\s+OR\s+username\s*=\s*\$2\s*$`

	mock.ExpectQuery(q).
		WithArgs("new@example.com", "joe").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	exists, err := repo.Exists(context.Background(), "new@example.com", "joe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("a clash on either identifier must block creation")
	}
}

func TestCreate_ReturnsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+auth_users\b.*RETURNING\s+id\s*$`

	mock.ExpectQuery(q).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	u := newTestUser()
	id, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 || u.ID != 42 {
		t.Fatalf("want id 42, got %d (user %d)", id, u.ID)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+auth_users\s+SET\s+.*WHERE\s+id\s*=\s*\$\d+\s*$`

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 1))

	u := newTestUser()
	u.ID = 7
	if err := repo.Update(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_Reports(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+auth_users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), 7)
	if err != nil || !deleted {
		t.Fatalf("want deleted, got %v (%v)", deleted, err)
	}

	deleted, err = repo.Delete(context.Background(), 8)
	if err != nil || deleted {
		t.Fatalf("want not deleted, got %v (%v)", deleted, err)
	}
}
