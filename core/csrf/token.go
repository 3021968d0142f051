package csrf

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/dmitrymomot/surfguard/core/session"
)

// tokenBytes is the raw entropy per token: 32 bytes (256 bits), encoded as
// 43 base64url characters.
const tokenBytes = 32

// GenerateToken produces a fresh cryptographically random URL-safe token.
// Two consecutive calls never return the same value in practice.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// EnsureToken returns the token bound to the session under key, generating
// and binding a new one when absent. Repeated calls on the same session
// return the same token without marking the session modified again.
func EnsureToken(sess *session.Session, key string) (string, error) {
	if token, ok := sess.Get(key); ok && token != "" {
		return token, nil
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	sess.Set(key, token)

	return token, nil
}

// BindToken overwrites the session's token. This is the only point where
// session dirtiness is touched by the protection layer.
func BindToken(sess *session.Session, key, token string) {
	sess.Set(key, token)
}
