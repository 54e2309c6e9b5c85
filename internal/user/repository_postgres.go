package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wichananm65/grocery-list-backend/internal/infrastructure/database"
)

type PostgresRepository struct {
	conn database.Provider
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	userColumns = `id, COALESCE(google_id, ''), email, name, picture, last_login, created_at`

	getUserByIDQuery       = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByGoogleIDQuery = `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	insertUserQuery        = `
		INSERT INTO users (id, google_id, email, name, picture, last_login, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
	`
	touchLastLoginQuery = `UPDATE users SET last_login = $2 WHERE id = $1 RETURNING ` + userColumns
	countUsersQuery     = `SELECT COUNT(*) FROM users`

	uniqueViolation = "23505"
)

func NewPostgresRepository(conn database.Provider) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (User, error) {
	return r.getOne(ctx, getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByGoogleID(ctx context.Context, googleID string) (User, error) {
	return r.getOne(ctx, getUserByGoogleIDQuery, googleID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return User{}, err
	}
	u, err := scanUser(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, database.Report(r.conn, err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return User{}, err
	}
	_, err = db.ExecContext(ctx, insertUserQuery,
		user.ID,
		user.GoogleID,
		user.Email,
		user.Name,
		user.Picture,
		user.LastLogin,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrGoogleIDTaken
		}
		return User{}, database.Report(r.conn, err)
	}
	return user, nil
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) (User, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return User{}, err
	}
	u, err := scanUser(db.QueryRowContext(ctx, touchLastLoginQuery, id, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, database.Report(r.conn, err)
	}
	return u, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, countUsersQuery).Scan(&n); err != nil {
		return 0, database.Report(r.conn, err)
	}
	return n, nil
}

func scanUser(scanner rowScanner) (User, error) {
	var u User
	if err := scanner.Scan(
		&u.ID,
		&u.GoogleID,
		&u.Email,
		&u.Name,
		&u.Picture,
		&u.LastLogin,
		&u.CreatedAt,
	); err != nil {
		return User{}, err
	}
	return u, nil
}
