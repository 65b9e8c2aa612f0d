package repository_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userauth/internal/db"
	"userauth/internal/model"
	"userauth/internal/repository"
)

// newMongoRepo connects to MONGO_TEST_URI and uses a throwaway database.
func newMongoRepo(t *testing.T) repository.UserRepository {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	dbName := "userauth_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	database, err := db.NewMongo(ctx, uri, dbName)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = db.CloseMongo(database)
	})

	repo, err := repository.NewMongoUserRepository(ctx, database)
	require.NoError(t, err)
	return repo
}

func TestMongoUserRepository_CreateAndRoundTrip(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()

	u := model.NewUser("Alice", "alice@example.com", "password123")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.PasswordModified())

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, model.RoleUser, got.Role)
	assert.True(t, got.CreatedAt.Equal(u.CreatedAt), "createdAt %v != %v", got.CreatedAt, u.CreatedAt)
	assert.True(t, got.UpdatedAt.Equal(u.UpdatedAt), "updatedAt %v != %v", got.UpdatedAt, u.UpdatedAt)

	withPassword, err := repo.FindByEmail(ctx, "alice@example.com", true)
	require.NoError(t, err)
	ok, err := withPassword.ComparePassword("password123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMongoUserRepository_PasswordHiddenByDefault(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, model.NewUser("Alice", "alice@example.com", "password123")))

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com", false)
	require.NoError(t, err)
	assert.Empty(t, byEmail.Password)

	byID, err := repo.FindByID(ctx, byEmail.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.Password)
}

func TestMongoUserRepository_UniqueEmail(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, model.NewUser("Alice", "alice@example.com", "password123")))

	err := repo.Create(ctx, model.NewUser("Alice Again", "alice@example.com", "password456"))

	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestMongoUserRepository_NotFound(t *testing.T) {
	repo := newMongoRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@example.com", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
