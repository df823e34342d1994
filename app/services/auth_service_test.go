package services

import (
	"errors"
	"strings"
	"testing"

	"quill/app/auth"
	"quill/app/logging"
	"quill/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingIssuer struct{}

func (failingIssuer) Issue(string) (string, error) {
	return "", errors.New("signing failed")
}

// countingVerifier records which comparison path a login took.
type countingVerifier struct {
	PasswordVerifier
	verified int
	missing  int
}

func (c *countingVerifier) Verify(hash, plain string) bool {
	c.verified++
	return c.PasswordVerifier.Verify(hash, plain)
}

func (c *countingVerifier) VerifyMissing(plain string) bool {
	c.missing++
	return c.PasswordVerifier.VerifyMissing(plain)
}

func TestAuthServiceLogin(t *testing.T) {
	f := newFixture(t)
	registered, err := NewUserService(f.users, f.passwords).Register(ctx(), &models.RegisterRequest{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	require.NoError(t, err)

	verifier := &countingVerifier{PasswordVerifier: f.passwords}
	service := NewAuthService(f.users, verifier, f.tokens, logging.Discard())

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := service.Login(ctx(), &models.LoginRequest{Email: "ADA@example.com", Password: "correct horse"})
		require.NoError(t, err)
		assert.Len(t, strings.Split(resp.AccessToken, "."), 3)
		assert.Equal(t, registered.ID, resp.User.ID)

		subject, err := f.tokens.Verify(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		before := verifier.verified
		_, err := service.Login(ctx(), &models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Equal(t, before+1, verifier.verified)
	})

	t.Run("unknown email still hashes", func(t *testing.T) {
		before := verifier.missing
		_, err := service.Login(ctx(), &models.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Equal(t, before+1, verifier.missing)
	})

	t.Run("malformed request", func(t *testing.T) {
		_, err := service.Login(ctx(), &models.LoginRequest{Email: "not-an-email", Password: "x"})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("store failure is not an auth failure", func(t *testing.T) {
		f.users.Err = errors.New("store down")
		defer func() { f.users.Err = nil }()

		_, err := service.Login(ctx(), &models.LoginRequest{Email: "ada@example.com", Password: "correct horse"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("token failure", func(t *testing.T) {
		broken := NewAuthService(f.users, f.passwords, failingIssuer{}, logging.Discard())
		_, err := broken.Login(ctx(), &models.LoginRequest{Email: "ada@example.com", Password: "correct horse"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to issue token")
	})
}
