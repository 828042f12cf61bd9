// Package repositories defines interfaces for data access operations.
package repositories

import (
	"context"

	"github.com/nordluma/sqlite-mt-tests/pkg/models"
)

// UserRepository is the handle to the single users table. Implementations
// own one physical connection and are safe for concurrent use: the
// database/sql layer underneath serializes statement execution against it.
type UserRepository interface {
	// EnsureSchema creates the users table if it does not exist. It is
	// idempotent and reports whether the table was created by this call.
	EnsureSchema(ctx context.Context) (created bool, err error)

	// Insert writes a single row in its own implicit transaction. A
	// duplicate name returns an error satisfying
	// errors.IsConstraintViolation.
	Insert(ctx context.Context, name string) error

	// SelectAll returns every persisted row ordered by id.
	SelectAll(ctx context.Context) ([]models.User, error)

	// DeleteAll removes every row and returns the number removed. It is a
	// no-op on an empty table.
	DeleteAll(ctx context.Context) (int64, error)

	// Close releases the underlying connection.
	Close() error
}
