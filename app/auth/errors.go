package auth

import "errors"

// Outward errors. These map one-to-one onto response statuses.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUnauthenticated    = errors.New("auth: unauthenticated")
	ErrForbidden          = errors.New("auth: access denied")
)

// Token failures. They are kept apart for logging and tests and all satisfy
// errors.Is(err, ErrUnauthenticated).
var (
	ErrMissingToken   = &tokenError{reason: "missing token"}
	ErrTokenMalformed = &tokenError{reason: "token malformed"}
	ErrTokenExpired   = &tokenError{reason: "token expired"}
	ErrTokenSignature = &tokenError{reason: "token signature invalid"}
)

type tokenError struct {
	reason string
}

func (e *tokenError) Error() string {
	return "auth: " + e.reason
}

// Is lets every token failure match ErrUnauthenticated.
func (e *tokenError) Is(target error) bool {
	return target == ErrUnauthenticated
}
