package oauthstate

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"clipcast/domain/model"
)

// stateDelimiter separates the state fields. It is not expected to appear in
// user ids or platform names; ParseState rejects values where it would be
// ambiguous.
const stateDelimiter = "|"

const (
	stateNonceBytes   = 24 // 192 bits
	codeVerifierBytes = 32 // 256 bits
)

// GenerateState produces the opaque CSRF state for one authorization attempt:
// userID|platform|nonce with a cryptographically random nonce.
func GenerateState(userID string, platform model.Platform) (string, error) {
	nonce, err := randomURLSafe(stateNonceBytes)
	if err != nil {
		return "", err
	}
	return userID + stateDelimiter + string(platform) + stateDelimiter + nonce, nil
}

// ParseState splits an opaque state back into its fields. Malformed input
// returns ok=false rather than an error so callers can redirect to a generic
// failure instead of crashing.
func ParseState(state string) (userID string, platform model.Platform, nonce string, ok bool) {
	parts := strings.Split(state, stateDelimiter)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", "", "", false
	}
	p, valid := model.ParsePlatform(parts[1])
	if !valid {
		return "", "", "", false
	}
	return parts[0], p, parts[2], true
}

// GenerateCodeVerifier returns a fresh PKCE verifier: 256 bits of randomness,
// URL-safe base64 without padding. Never log the full value.
func GenerateCodeVerifier() (string, error) {
	return randomURLSafe(codeVerifierBytes)
}

// CodeChallenge derives the challenge for a verifier. The digest is always
// SHA-256; the encoding is a per-platform profile property.
func CodeChallenge(verifier string, encoding model.ChallengeEncoding) string {
	sum := sha256.Sum256([]byte(verifier))
	if encoding == model.ChallengeS256Hex {
		return hex.EncodeToString(sum[:])
	}
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomURLSafe(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
