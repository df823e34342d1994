package repositories

import (
	"context"
	"sync"
	"testing"

	"quill/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewInMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func newTestUser(email string) *models.User {
	return &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$04$not-a-real-hash",
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := newTestRepository(t).Users()

	t.Run("create and get user", func(t *testing.T) {
		user := newTestUser("  Ada@Example.COM ")
		err := users.Create(ctx, user)
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.False(t, user.CreatedAt.IsZero())

		byID, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)
		assert.Equal(t, user.PasswordHash, byID.PasswordHash)

		byEmail, err := users.GetByEmail(ctx, "ADA@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := users.Create(ctx, newTestUser("grace@example.com"))
		require.NoError(t, err)

		err = users.Create(ctx, newTestUser("Grace@example.com"))
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("invalid user", func(t *testing.T) {
		user := newTestUser("not-an-email")
		err := users.Create(ctx, user)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := users.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list users", func(t *testing.T) {
		list, err := users.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := users.GetByID(cancelled, "anything")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestUserRepositoryConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	users := newTestRepository(t).Users()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- users.Create(ctx, newTestUser("race@example.com"))
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailTaken)
	}
	assert.Equal(t, 1, created)
}
