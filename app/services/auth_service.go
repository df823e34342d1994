package services

import (
	"context"
	"errors"
	"fmt"

	"quill/app/auth"
	"quill/app/logging"
	"quill/app/models"
	"quill/app/repositories"
)

// PasswordVerifier hashes and checks passwords. *auth.CredentialVerifier
// satisfies it.
type PasswordVerifier interface {
	HashPassword(plain string) (string, error)
	Verify(hash, plain string) bool
	VerifyMissing(plain string) bool
}

// TokenIssuer issues session tokens. *auth.TokenService satisfies it.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// AuthService exchanges credentials for a session token
type AuthService struct {
	users     repositories.UserRepository
	passwords PasswordVerifier
	tokens    TokenIssuer
	logger    logging.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, passwords PasswordVerifier, tokens TokenIssuer, logger logging.Logger) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// Login checks the credentials and issues a token for the matching user.
// An unknown email and a wrong password both yield auth.ErrInvalidCredentials
// after the same amount of hashing work.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.passwords.VerifyMissing(req.Password)
		s.logger.Debug(ctx, "login rejected", "reason", "unknown email")
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.passwords.Verify(user.PasswordHash, req.Password) {
		s.logger.Debug(ctx, "login rejected", "reason", "password mismatch", "user_id", user.ID)
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)
	return &models.LoginResponse{AccessToken: token, User: user}, nil
}
