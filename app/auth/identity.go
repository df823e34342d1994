package auth

import (
	"context"

	"quill/app/models"
)

// Identity is the authenticated principal attached to a single request.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// IdentityFromUser builds the request identity from a resolved user.
func IdentityFromUser(u *models.User) *Identity {
	return &Identity{UserID: u.ID, Email: u.Email, Name: u.Name}
}

type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a new context with the given identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity from the context.
// Returns nil if no identity is present.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
