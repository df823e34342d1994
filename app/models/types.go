package models

import "time"

// User represents a registered account. The password hash never leaves the
// process in JSON form.
type User struct {
	ID           string    `json:"id" validate:"required"`
	Email        string    `json:"email" validate:"required,email,max=254"`
	Name         string    `json:"name" validate:"required,min=2,max=100"`
	PasswordHash string    `json:"-" validate:"required"`
	CreatedAt    time.Time `json:"created_at" validate:"required"`
}

// Post represents a piece of content owned by exactly one user.
type Post struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required,min=1,max=200"`
	Content   string    `json:"content" validate:"required"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"author_id" validate:"required"`
	Author    *User     `json:"author,omitempty" validate:"-"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at"`
}
