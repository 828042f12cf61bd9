// Package sqlite provides the SQLite-backed user repository.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/nordluma/sqlite-mt-tests/pkg/errors"
	"github.com/nordluma/sqlite-mt-tests/pkg/models"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories"
)

// userRepository implements repositories.UserRepository for SQLite.
type userRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewUserRepository opens (or creates) the SQLite database at path. The
// handle is capped at one open connection so every statement from every
// worker funnels through the same physical connection.
func NewUserRepository(path string, logger zerolog.Logger) (repositories.UserRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeOpenFailed, "failed to open database at %s", path)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, errors.CodeOpenFailed, "failed to open database at %s", path)
	}

	logger.Debug().Str("path", path).Msg("Database opened")

	return &userRepository{
		db:     db,
		logger: logger,
	}, nil
}

// EnsureSchema creates the users table if absent.
func (r *userRepository) EnsureSchema(ctx context.Context) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'users'`,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeSchemaFailed, "failed to inspect schema")
	}

	if exists > 0 {
		r.logger.Debug().Msg("Users table already exists")
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeSchemaFailed, "failed to create users table")
	}

	return true, nil
}

// Insert writes one row in its own implicit transaction.
func (r *userRepository) Insert(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO users (name) VALUES (?)`, name)
	if err != nil {
		if isConstraintErr(err) {
			return errors.Wrap(err, errors.CodeConstraintViolation, "name already exists").
				WithDetail("name", name)
		}
		return errors.Wrapf(err, errors.CodeQueryFailed, "failed to insert %s", name)
	}
	return nil
}

// SelectAll returns every row ordered by id.
func (r *userRepository) SelectAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeQueryFailed, "failed to select users")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, errors.Wrap(err, errors.CodeQueryFailed, "failed to scan user row")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeQueryFailed, "failed to read user rows")
	}

	r.logger.Debug().Int("count", len(users)).Msg("Selected users")
	return users, nil
}

// DeleteAll removes every row and reports how many were removed.
func (r *userRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeQueryFailed, "failed to delete users")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeQueryFailed, "failed to count deleted rows")
	}

	return n, nil
}

// Close closes the database handle.
func (r *userRepository) Close() error {
	return r.db.Close()
}

// isConstraintErr reports whether the driver error is a unique constraint
// failure.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if !stderrors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrConstraint
}
