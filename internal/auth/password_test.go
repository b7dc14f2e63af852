package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	t.Run("verifies its own output", func(t *testing.T) {
		hashed, err := hasher.Hash("s3cret")
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret", hashed)
		assert.True(t, hasher.Verify(hashed, "s3cret"))
		assert.False(t, hasher.Verify(hashed, "s3cret "))
		assert.False(t, hasher.Verify(hashed, ""))
	})

	t.Run("salts every hash", func(t *testing.T) {
		first, err := hasher.Hash("same-password")
		require.NoError(t, err)
		second, err := hasher.Hash("same-password")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, hasher.Verify(first, "same-password"))
		assert.True(t, hasher.Verify(second, "same-password"))
	})

	t.Run("out-of-range cost falls back to default", func(t *testing.T) {
		h := NewBcryptHasher(-1)
		hashed, err := h.Hash("pw")
		require.NoError(t, err)
		assert.True(t, h.Verify(hashed, "pw"))
	})
}
