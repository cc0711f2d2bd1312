package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash, "hash must not contain the plaintext")

	assert.True(t, VerifyPassword(hash, "secret1"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	h2, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "two hashes of the same password must differ")
}

func TestVerifyMalformedHashFailsClosed(t *testing.T) {
	assert.False(t, VerifyPassword("", "secret1"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "secret1"))
}
