package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		user    *User
		wantErr bool
	}{
		{
			name: "valid user",
			user: &User{
				ID:           "u-1",
				Email:        "test@example.com",
				Name:         "Test User",
				PasswordHash: "$2a$10$hash",
				CreatedAt:    time.Now(),
			},
			wantErr: false,
		},
		{
			name: "invalid email",
			user: &User{
				ID:           "u-1",
				Email:        "invalid-email",
				Name:         "Test User",
				PasswordHash: "$2a$10$hash",
				CreatedAt:    time.Now(),
			},
			wantErr: true,
		},
		{
			name: "name too short",
			user: &User{
				ID:           "u-1",
				Email:        "test@example.com",
				Name:         "T",
				PasswordHash: "$2a$10$hash",
				CreatedAt:    time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing hash",
			user: &User{
				ID:        "u-1",
				Email:     "test@example.com",
				Name:      "Test User",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserBeforeCreate(t *testing.T) {
	user := &User{Email: "  Test@Example.COM "}

	user.BeforeCreate()
	assert.Equal(t, "test@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := &User{ID: "u-1", Email: "test@example.com", Name: "Test User", PasswordHash: "secret-hash"}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "password")
	assert.NotContains(t, fields, "password_hash")
	assert.NotContains(t, string(data), "secret-hash")
}
