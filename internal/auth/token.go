package auth

import "github.com/google/uuid"

// NewToken generates an opaque, crypto-random token string. Used for both
// session IDs and reset tokens; the token carries no meaning of its own and
// only resolves through the store.
func NewToken() string {
	return uuid.New().String()
}
