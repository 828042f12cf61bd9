// Package duckdb provides the DuckDB-backed user repository.
//
// DuckDB has no implicit rowid, so the id column is fed from a sequence
// to keep the same monotonically increasing id contract as the SQLite
// backend.
package duckdb

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	duckdb "github.com/marcboeker/go-duckdb/v2"
	"github.com/rs/zerolog"

	"github.com/nordluma/sqlite-mt-tests/pkg/errors"
	"github.com/nordluma/sqlite-mt-tests/pkg/models"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories"
)

// userRepository implements repositories.UserRepository for DuckDB.
type userRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewUserRepository opens (or creates) the DuckDB database at path. As with
// the SQLite backend, the handle is capped at one open connection.
func NewUserRepository(path string, logger zerolog.Logger) (repositories.UserRepository, error) {
	db, err := sql.Open("duckdb", path)
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

// EnsureSchema creates the users table and its id sequence if absent.
func (r *userRepository) EnsureSchema(ctx context.Context) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'users'`,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeSchemaFailed, "failed to inspect schema")
	}

	if exists > 0 {
		r.logger.Debug().Msg("Users table already exists")
		return false, nil
	}

	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY DEFAULT nextval('users_id_seq'),
			name TEXT NOT NULL UNIQUE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return false, errors.Wrap(err, errors.CodeSchemaFailed, "failed to create users table")
		}
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

	return users, nil
}

// DeleteAll removes every row and reports how many were removed.
func (r *userRepository) DeleteAll(ctx context.Context) (int64, error) {
	// DuckDB does not report affected rows through Result for DELETE, so
	// count first inside the single-connection handle.
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, errors.CodeQueryFailed, "failed to count users")
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return 0, errors.Wrap(err, errors.CodeQueryFailed, "failed to delete users")
	}

	return count, nil
}

// Close closes the database handle.
func (r *userRepository) Close() error {
	return r.db.Close()
}

// isConstraintErr reports whether the driver error is a unique constraint
// failure.
func isConstraintErr(err error) bool {
	var duckErr *duckdb.Error
	if stderrors.As(err, &duckErr) {
		return duckErr.Type == duckdb.ErrorTypeConstraint
	}
	return strings.Contains(err.Error(), "Constraint Error")
}
