// Package crypt compares and prepares stored admin passwords.
//
// Two schemes exist. "plaintext" stores the secret as-is and compares by
// equality, which is what existing admin rows hold. "bcrypt" stores a
// bcrypt hash. Plaintext storage is a known weakness; switch with
// PASSWORD_HASHER=bcrypt and reseed.
//
//	h := crypt.ForName(config.PasswordHasher())
//	ok := h.Check(admin.Password, supplied)
package crypt

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a secret into its stored form and checks candidates against it.
type Hasher interface {
	Hash(plain string) (string, error)
	Check(stored, plain string) bool
	Name() string
}

// ForName returns the hasher registered under name, falling back to
// plaintext for unknown names.
func ForName(name string) Hasher {
	if name == "bcrypt" {
		return Bcrypt{Cost: bcrypt.DefaultCost}
	}
	return Plaintext{}
}

// Plaintext stores secrets verbatim.
type Plaintext struct{}

func (Plaintext) Name() string { return "plaintext" }

func (Plaintext) Hash(plain string) (string, error) { return plain, nil }

func (Plaintext) Check(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// Bcrypt stores bcrypt hashes at Cost.
type Bcrypt struct {
	Cost int
}

func (Bcrypt) Name() string { return "bcrypt" }

func (b Bcrypt) Hash(plain string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plain), b.Cost)
	if err != nil {
		return "", fmt.Errorf("crypt: bcrypt: %w", err)
	}
	return string(out), nil
}

// Check reports false for a malformed hash as well as a mismatch.
func (Bcrypt) Check(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}
