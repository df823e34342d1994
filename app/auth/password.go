package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyPassword seeds the hash compared against when an account does not
// exist.
const dummyPassword = "quill-dummy-password"

// CredentialVerifier hashes and checks passwords with bcrypt.
type CredentialVerifier struct {
	cost      int
	dummyHash []byte
}

// NewCredentialVerifier creates a verifier using the given bcrypt cost.
// Costs outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewCredentialVerifier(cost int) (*CredentialVerifier, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &CredentialVerifier{cost: cost, dummyHash: dummy}, nil
}

// HashPassword returns the bcrypt hash of plain.
func (v *CredentialVerifier) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), v.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches the stored hash. An empty or
// unparseable hash never matches.
func (v *CredentialVerifier) Verify(hash, plain string) bool {
	if hash == "" {
		return v.VerifyMissing(plain)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// VerifyMissing burns the same work as a real comparison and always
// reports no match. Call it when no account exists for the identity.
func (v *CredentialVerifier) VerifyMissing(plain string) bool {
	_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(plain))
	return false
}
