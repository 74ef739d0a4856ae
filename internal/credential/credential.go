// Package credential derives and verifies salted password digests and issues
// opaque session tokens.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const (
	SaltBytes  = 16
	TokenBytes = 64
)

// ErrEntropy is returned when the random source fails. Callers must treat it
// as fatal for the operation: there is no weaker fallback.
var ErrEntropy = errors.New("credential: random source failure")

type Engine struct {
	random io.Reader
}

func NewEngine() *Engine {
	return &Engine{random: rand.Reader}
}

// NewEngineWithSource uses r instead of crypto/rand.
func NewEngineWithSource(r io.Reader) *Engine {
	return &Engine{random: r}
}

// Derive generates a fresh salt and returns the digest of password+salt.
func (e *Engine) Derive(password string) (hash, salt string, err error) {
	raw, err := e.read(SaltBytes)
	if err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(raw)
	return Digest(password, salt), salt, nil
}

// Verify reports whether password+salt digests to expectedHash.
func (e *Engine) Verify(password, salt, expectedHash string) bool {
	computed := Digest(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHash)) == 1
}

// IssueToken returns an opaque bearer token.
func (e *Engine) IssueToken() (string, error) {
	raw, err := e.read(TokenBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Digest is base64(SHA-256(password + salt)).
func Digest(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (e *Engine) read(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(e.random, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return b, nil
}
