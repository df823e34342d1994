package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := Validate(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt
}

// SetAuthor attaches the owning user and records its id.
func (p *Post) SetAuthor(author *User) error {
	if author == nil {
		return errors.New("author cannot be nil")
	}

	p.Author = author
	p.AuthorID = author.ID
	return nil
}

// Apply copies the non-nil fields of an update request onto the post.
// Ownership and creation time are never touched.
func (p *Post) Apply(req *UpdatePostRequest) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Published != nil {
		p.Published = *req.Published
	}
	p.UpdatedAt = time.Now().UTC()
}
