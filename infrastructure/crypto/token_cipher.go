package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// blobVersion allows future format changes without breaking stored rows.
	blobVersion = 0x01

	nonceSize = 12
	keySize   = 32
)

var (
	ErrEmptyKey         = errors.New("token encryption key is empty")
	ErrInvalidBlob      = errors.New("encrypted token blob is malformed")
	ErrDecryptionFailed = errors.New("failed to decrypt token")
)

// TokenCipher encrypts OAuth tokens with AES-256-GCM before they reach the
// store and decrypts them at the point of use. Stored format is
// base64url(version(1) || nonce(12) || ciphertext).
type TokenCipher struct {
	gcm cipher.AEAD
}

// NewTokenCipher derives a 32-byte key from the given secret. Any non-empty
// secret is accepted; SHA-256 normalises it to the AES-256 key size.
func NewTokenCipher(secret string) (*TokenCipher, error) {
	if secret == "" {
		return nil, ErrEmptyKey
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:keySize])
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &TokenCipher{gcm: gcm}, nil
}

// Encrypt seals a plaintext token. Empty input stays empty so optional
// refresh tokens round-trip without a phantom ciphertext.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.gcm.Seal(nil, nonce, []byte(plaintext), nil)

	blob := make([]byte, 1+nonceSize+len(sealed))
	blob[0] = blobVersion
	copy(blob[1:1+nonceSize], nonce)
	copy(blob[1+nonceSize:], sealed)
	return base64.RawURLEncoding.EncodeToString(blob), nil
}

// Decrypt opens a stored blob back into the plaintext token.
func (c *TokenCipher) Decrypt(stored string) (string, error) {
	if stored == "" {
		return "", nil
	}
	blob, err := base64.RawURLEncoding.DecodeString(stored)
	if err != nil {
		return "", ErrInvalidBlob
	}
	if len(blob) < 1+nonceSize+c.gcm.Overhead() {
		return "", ErrInvalidBlob
	}
	if blob[0] != blobVersion {
		return "", fmt.Errorf("%w: version %d", ErrInvalidBlob, blob[0])
	}
	nonce := blob[1 : 1+nonceSize]
	plaintext, err := c.gcm.Open(nil, nonce, blob[1+nonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
