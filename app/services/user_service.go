package services

import (
	"context"
	"fmt"

	"quill/app/models"
	"quill/app/repositories"
)

// UserService handles registration and lookup of users
type UserService struct {
	users     repositories.UserRepository
	passwords PasswordVerifier
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, passwords PasswordVerifier) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
	}
}

// Register validates the request, hashes the password and stores the user.
// A taken email surfaces as repositories.ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers retrieves every user
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}
