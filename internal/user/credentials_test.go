package user

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	for _, algo := range []string{AlgoBcrypt, AlgoArgon2id} {
		t.Run(algo, func(t *testing.T) {
			hash, err := HashPassword("s3cret", algo)
			if err != nil {
				t.Fatalf("HashPassword: %v", err)
			}
			if !IsHash(hash) {
				t.Errorf("IsHash(%q) = false", hash)
			}

			c := NewCredentials("admin", hash)
			if err := c.Verify("admin", "s3cret"); err != nil {
				t.Errorf("valid login rejected: %v", err)
			}
			if err := c.Verify("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("wrong password error = %v", err)
			}
			if err := c.Verify("root", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("wrong username error = %v", err)
			}
			if err := c.Verify("admin", ""); !errors.Is(err, ErrNoCredentials) {
				t.Errorf("empty password error = %v", err)
			}
		})
	}
}

func TestPlaintextHashNeverMatches(t *testing.T) {
	c := NewCredentials("admin", "s3cret")
	if err := c.Verify("admin", "s3cret"); err == nil {
		t.Error("plaintext password hash must not verify")
	}
}

func TestNewCredentialsDisabled(t *testing.T) {
	if NewCredentials("", "x") != nil {
		t.Error("empty username should disable auth")
	}
}

func TestHashPasswordErrors(t *testing.T) {
	if _, err := HashPassword("", ""); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("empty password error = %v", err)
	}
	if _, err := HashPassword("x", "md5"); err == nil || !strings.Contains(err.Error(), "md5") {
		t.Errorf("unknown algo error = %v", err)
	}
}
