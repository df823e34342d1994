package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				ID:        "p-1",
				Title:     "Valid Title",
				Content:   "This is valid content",
				AuthorID:  "u-1",
				CreatedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "empty title",
			post: &Post{
				ID:        "p-1",
				Title:     "",
				Content:   "This is valid content",
				AuthorID:  "u-1",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing author",
			post: &Post{
				ID:        "p-1",
				Title:     "Valid Title",
				Content:   "This is valid content",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			post: &Post{
				ID:        "p-1",
				Title:     "Valid Title",
				Content:   "This is valid content",
				AuthorID:  "u-1",
				CreatedAt: time.Time{},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{
		Title:   "Test Post",
		Content: "Test Content",
	}

	assert.True(t, post.CreatedAt.IsZero())
	post.BeforeCreate()
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
}

func TestPostOwnership(t *testing.T) {
	post := &Post{ID: "p-1", Title: "Test Post", Content: "Test Content"}

	t.Run("set valid author", func(t *testing.T) {
		author := &User{ID: "u-1", Email: "a@example.com", Name: "Alice"}

		err := post.SetAuthor(author)
		assert.NoError(t, err)
		assert.Equal(t, "u-1", post.AuthorID)
		assert.Equal(t, author, post.Author)
	})

	t.Run("set nil author", func(t *testing.T) {
		err := post.SetAuthor(nil)
		assert.Error(t, err)
	})
}

func TestPostApply(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	post := &Post{
		ID:        "p-1",
		Title:     "Original",
		Content:   "Original content",
		AuthorID:  "u-1",
		CreatedAt: created,
		UpdatedAt: created,
	}

	title := "Updated"
	published := true
	post.Apply(&UpdatePostRequest{Title: &title, Published: &published})

	assert.Equal(t, "Updated", post.Title)
	assert.Equal(t, "Original content", post.Content)
	assert.True(t, post.Published)
	assert.Equal(t, "u-1", post.AuthorID)
	assert.Equal(t, created, post.CreatedAt)
	assert.True(t, post.UpdatedAt.After(created))
}

func TestRequestValidation(t *testing.T) {
	empty := ""
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{"login ok", &LoginRequest{Email: "test@example.com", Password: "password123"}, false},
		{"login missing password", &LoginRequest{Email: "test@example.com"}, true},
		{"login bad email", &LoginRequest{Email: "invalid-email", Password: "password123"}, true},
		{"register ok", &RegisterRequest{Email: "test@example.com", Name: "Test User", Password: "password123"}, false},
		{"register short password", &RegisterRequest{Email: "test@example.com", Name: "Test User", Password: "123"}, true},
		{"create post ok", &CreatePostRequest{Title: "Test Post", Content: "This is a test post"}, false},
		{"create post missing content", &CreatePostRequest{Title: "Test Post"}, true},
		{"update post empty", &UpdatePostRequest{}, false},
		{"update post empty title", &UpdatePostRequest{Title: &empty}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationMessageUsesJSONNames(t *testing.T) {
	err := Validate(&LoginRequest{Email: "nope", Password: ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email must be an email")
	assert.Contains(t, err.Error(), "password is required")
}
