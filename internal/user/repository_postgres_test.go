package user

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wichananm65/grocery-list-backend/internal/infrastructure/database"
)

var userCols = []string{"id", "google_id", "email", "name", "picture", "last_login", "created_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(database.Static(db)), mock
}

func TestPostgresGetByGoogleID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(getUserByGoogleIDQuery)).
		WithArgs("g-1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "g-1", "a@example.com", "A", "", now, now))

	u, err := repo.GetByGoogleID(context.Background(), "g-1")
	if err != nil {
		t.Fatalf("GetByGoogleID: %v", err)
	}
	if u.ID != "u-1" || u.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(getUserByIDQuery)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	in := User{ID: "u-1", GoogleID: "g-1", Email: "a@example.com", Name: "A", LastLogin: now, CreatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta(insertUserQuery)).
		WithArgs("u-1", "g-1", "a@example.com", "A", "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestPostgresCreateDuplicateGoogleID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertUserQuery)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := repo.Create(context.Background(), User{ID: "u-2", GoogleID: "g-1"}); err != ErrGoogleIDTaken {
		t.Fatalf("expected ErrGoogleIDTaken, got %v", err)
	}
}

func TestPostgresTouchLastLogin(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(touchLastLoginQuery)).
		WithArgs("u-1", now).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "g-1", "a@example.com", "A", "", now, now))

	u, err := repo.TouchLastLogin(context.Background(), "u-1", now)
	if err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}
	if !u.LastLogin.Equal(now) {
		t.Fatalf("last login not updated: %v", u.LastLogin)
	}
}

func TestPostgresCountReportsBrokenConnection(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(countUsersQuery)).WillReturnError(driver.ErrBadConn)

	if _, err := repo.Count(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestPostgresCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(countUsersQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("expected 3, got %d (%v)", n, err)
	}
}
