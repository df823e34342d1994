package auth

import "fmt"

// OwnershipRequest describes a mutation that only the owner may perform.
type OwnershipRequest struct {
	// Subject is the authenticated identity making the request.
	Subject *Identity

	// OwnerID is the recorded owner of the target resource.
	OwnerID string

	// Resource names the target, e.g. "post:<id>". Used in errors only.
	Resource string

	// Action is the requested mutation, e.g. "update". Used in errors only.
	Action string
}

// AuthzError represents an ownership failure.
type AuthzError struct {
	Subject  string
	Resource string
	Action   string
}

// Error returns the error message.
func (e *AuthzError) Error() string {
	return fmt.Sprintf("authorization denied: subject=%q resource=%q action=%q",
		e.Subject, e.Resource, e.Action)
}

// Is reports whether this error matches the target.
func (e *AuthzError) Is(target error) bool {
	return target == ErrForbidden
}

// AuthorizeOwner permits the request iff the subject is the owner. A missing
// subject is ErrUnauthenticated; any other mismatch is an *AuthzError that
// matches ErrForbidden.
func AuthorizeOwner(req OwnershipRequest) error {
	if req.Subject == nil || req.Subject.UserID == "" {
		return ErrUnauthenticated
	}
	if req.OwnerID == "" || req.Subject.UserID != req.OwnerID {
		return &AuthzError{
			Subject:  req.Subject.UserID,
			Resource: req.Resource,
			Action:   req.Action,
		}
	}
	return nil
}
