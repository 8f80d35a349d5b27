// Package user holds the operator credentials that guard the HTTP server.
package user

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoCredentials      = errors.New("no credentials provided")
)

// Hash algorithms accepted by HashPassword.
const (
	AlgoBcrypt   = "bcrypt"
	AlgoArgon2id = "argon2id"
)

// Credentials is a single operator login for HTTP basic auth.
type Credentials struct {
	Username     string
	PasswordHash string
}

// NewCredentials returns nil when username is empty, which disables auth.
func NewCredentials(username, passwordHash string) *Credentials {
	if username == "" {
		return nil
	}
	return &Credentials{Username: username, PasswordHash: passwordHash}
}

// Verify checks a username/password pair.
func (c *Credentials) Verify(username, password string) error {
	if username == "" || password == "" {
		return ErrNoCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := verifyHash(c.PasswordHash, password)
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// IsHash reports whether s looks like a supported password hash.
func IsHash(s string) bool {
	return isBcrypt(s) || strings.HasPrefix(s, argon2Prefix)
}

// verifyHash checks if a secret matches a stored bcrypt or Argon2id hash.
// Plaintext is never accepted.
func verifyHash(hash, secret string) bool {
	switch {
	case isBcrypt(hash):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
	case strings.HasPrefix(hash, argon2Prefix):
		return verifyArgon2(secret, hash)
	default:
		return false
	}
}

func isBcrypt(hash string) bool {
	if len(hash) < 4 {
		return false
	}
	switch hash[:4] {
	case "$2a$", "$2b$", "$2y$":
		return true
	}
	return false
}

// HashPassword hashes a password for auth.passwordHash. algo defaults to
// bcrypt.
func HashPassword(password, algo string) (string, error) {
	if password == "" {
		return "", ErrNoCredentials
	}
	switch algo {
	case "", AlgoBcrypt:
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	case AlgoArgon2id:
		return hashArgon2(password)
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", algo)
	}
}
