package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenCipher_RoundTrip(t *testing.T) {
	c, err := NewTokenCipher("unit-test-secret")
	require.NoError(t, err)

	tokens := []string{
		"ya29.a0AfH6SMB-short",
		"act.example!1234~tiktok-style_token",
		strings.Repeat("A", 4096), // 4KB printable-ASCII
	}
	for _, tok := range tokens {
		stored, err := c.Encrypt(tok)
		require.NoError(t, err)
		require.NotEqual(t, tok, stored)
		require.NotContains(t, stored, tok[:8])

		got, err := c.Decrypt(stored)
		require.NoError(t, err)
		require.Equal(t, tok, got)
	}
}

func TestTokenCipher_EmptyPassthrough(t *testing.T) {
	c, err := NewTokenCipher("unit-test-secret")
	require.NoError(t, err)

	stored, err := c.Encrypt("")
	require.NoError(t, err)
	require.Equal(t, "", stored)

	got, err := c.Decrypt("")
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestTokenCipher_NonceUniqueness(t *testing.T) {
	c, err := NewTokenCipher("unit-test-secret")
	require.NoError(t, err)

	a, err := c.Encrypt("same-token")
	require.NoError(t, err)
	b, err := c.Encrypt("same-token")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestTokenCipher_WrongKey(t *testing.T) {
	c1, err := NewTokenCipher("key-one")
	require.NoError(t, err)
	c2, err := NewTokenCipher("key-two")
	require.NoError(t, err)

	stored, err := c1.Encrypt("secret-token")
	require.NoError(t, err)

	_, err = c2.Decrypt(stored)
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestTokenCipher_MalformedBlob(t *testing.T) {
	c, err := NewTokenCipher("unit-test-secret")
	require.NoError(t, err)

	_, err = c.Decrypt("!!!not-base64!!!")
	require.ErrorIs(t, err, ErrInvalidBlob)

	_, err = c.Decrypt("AAAA")
	require.ErrorIs(t, err, ErrInvalidBlob)
}

func TestNewTokenCipher_EmptyKey(t *testing.T) {
	_, err := NewTokenCipher("")
	require.ErrorIs(t, err, ErrEmptyKey)
}
