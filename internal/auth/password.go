package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and verifies salted one-way password hashes.
// Hash draws a fresh random salt each call, so two hashes of the same
// password never compare equal as strings.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, candidate string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt. Verification runs in
// time independent of where a mismatch occurs.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost; values outside
// bcrypt's range fall back to the default cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the salted bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether candidate matches the stored hash.
func (h *BcryptHasher) Verify(hashed, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(candidate)) == nil
}
