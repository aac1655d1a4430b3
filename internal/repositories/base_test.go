package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rana718/forge/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newUser(email string) *models.User {
	return &models.User{Email: email, HashedPassword: "x", IsActive: true}
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := newUser("a@example.com")
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	updated, err := repo.UpdateByID(ctx, u.ID, map[string]any{"email": "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", updated.Email)

	same, err := repo.UpdateByID(ctx, u.ID, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", same.Email)

	require.NoError(t, repo.DeleteByID(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, u.ID), ErrNotFound)
}

func TestRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newUser(fmt.Sprintf("u%d@example.com", i))))
	}

	page, err := repo.GetAll(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "u1@example.com", page[0].Email)

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	matches, err := repo.GetWhere(ctx, map[string]any{"email": "u3@example.com"})
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	exists, err := repo.EmailExists(ctx, "u4@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newUser("dup@example.com")))
	err := repo.Create(ctx, newUser("dup@example.com"))
	assert.ErrorIs(t, err, ErrDuplicate)
}
