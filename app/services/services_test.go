package services

import (
	"context"
	"testing"
	"time"

	"quill/app/auth"
	"quill/app/repositories/mock"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key"

type fixture struct {
	users     *mock.UserRepository
	posts     *mock.PostRepository
	passwords *auth.CredentialVerifier
	tokens    *auth.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	passwords, err := auth.NewCredentialVerifier(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	users := mock.NewUserRepository()
	return &fixture{
		users:     users,
		posts:     mock.NewPostRepository(users),
		passwords: passwords,
		tokens:    tokens,
	}
}

func ctx() context.Context {
	return context.Background()
}
