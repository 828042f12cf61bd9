package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordluma/sqlite-mt-tests/pkg/namegen"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories"
	"github.com/nordluma/sqlite-mt-tests/pkg/repositories/sqlite"
)

// End-to-end flows against a real SQLite file.

func newSQLiteService(t *testing.T) (SeederService, repositories.UserRepository) {
	t.Helper()

	repo, err := sqlite.NewUserRepository(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	_, err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return NewSeederService(repo, &mockLogger{}, &mockMetrics{}), repo
}

func TestEndToEnd_SeedThenSelect(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	users := BuildDataset(100, namegen.NewRandom())

	result, err := svc.Seed(ctx, users, 4)
	require.NoError(t, err)
	require.EqualValues(t, 100, result.Inserted+result.Failed)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, int(result.Inserted))

	want := make(map[string]struct{}, len(users))
	for _, u := range users {
		want[u.Name] = struct{}{}
	}
	for _, u := range got {
		_, ok := want[u.Name]
		assert.True(t, ok, "row %s was never generated", u.Name)
	}
}

func TestEndToEnd_DuplicatePairYieldsOneRow(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	users := namedUsers(20)
	users = append(users, users[7]) // one duplicate pair

	result, err := svc.Seed(ctx, users, 4)
	require.NoError(t, err)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, len(users)-1)
	assert.EqualValues(t, 1, result.Failed)
}

func TestEndToEnd_DeleteAfterSeed(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	result, err := svc.Seed(ctx, namedUsers(50), 4)
	require.NoError(t, err)

	n, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Inserted, n, "delete must report exactly the rows that existed")

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEndToEnd_SeedIsRerunnable(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	users := namedUsers(30)

	first, err := svc.Seed(ctx, users, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 30, first.Inserted)

	// A second run of the same dataset hits the unique constraint on every
	// item and is still a successful invocation.
	second, err := svc.Seed(ctx, users, 4)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.EqualValues(t, 30, second.Failed)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 30)
}
