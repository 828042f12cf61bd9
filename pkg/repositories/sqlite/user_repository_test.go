package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordluma/sqlite-mt-tests/pkg/errors"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories"
)

func newTestRepo(t *testing.T) repositories.UserRepository {
	t.Helper()

	repo, err := NewUserRepository(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestNewUserRepository_BadPath(t *testing.T) {
	_, err := NewUserRepository(filepath.Join(t.TempDir(), "missing", "test.db"), zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, errors.CodeOpenFailed, errors.GetCode(err))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.EnsureSchema(ctx)
	require.NoError(t, err)
	assert.True(t, created, "first call should create the table")

	created, err = repo.EnsureSchema(ctx)
	require.NoError(t, err)
	assert.False(t, created, "second call should find the table in place")
}

func TestInsert_Duplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.EnsureSchema(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Insert(ctx, "qZn01xPm4T7aLwd"))

	err = repo.Insert(ctx, "qZn01xPm4T7aLwd")
	require.Error(t, err)
	assert.True(t, errors.IsConstraintViolation(err))

	users, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "duplicate insert must not add a second row")
}

func TestSelectAll_OrderAndContent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.EnsureSchema(ctx)
	require.NoError(t, err)

	names := []string{"alice0alice0alic", "bob1bob1bob1bob", "carol2carol2car"}
	for _, name := range names {
		require.NoError(t, repo.Insert(ctx, name))
	}

	users, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, len(names))

	for i, u := range users {
		assert.Equal(t, names[i], u.Name)
		if i > 0 {
			assert.Greater(t, u.ID, users[i-1].ID, "ids should be monotonically increasing")
		}
	}
}

func TestDeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.EnsureSchema(ctx)
	require.NoError(t, err)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "delete on an empty table should report zero rows")

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, fmt.Sprintf("user-%d-padpadpad", i)))
	}

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	users, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestInsert_ConcurrentWorkers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.EnsureSchema(ctx)
	require.NoError(t, err)

	const workers = 4
	const perWorker = 25

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_ = repo.Insert(ctx, fmt.Sprintf("worker%d-item%02d", w, i))
			}
		}(w)
	}
	wg.Wait()

	users, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, workers*perWorker)

	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		_, dup := seen[u.Name]
		assert.False(t, dup, "name %s appeared twice", u.Name)
		seen[u.Name] = struct{}{}
	}
}
