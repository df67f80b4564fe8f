// Package crypto provides one-way password hashing for stored credentials.
//
// Every hasher produces self-describing strings (algorithm, cost and salt are
// encoded in the hash), so a stored value can be verified without any extra
// metadata.
package crypto

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing algorithms
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// ErrUnknownAlgorithm is returned by NewPasswordHasher for unsupported algorithm names
var ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")

// PasswordHasher hashes and verifies passwords.
//
// Hash must use a fresh random salt on every call. Verify must compare in
// constant time and report false (never panic) for malformed hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// NewPasswordHasher returns the hasher configured by name.
// bcryptCost is ignored for argon2id; zero means bcrypt.DefaultCost.
func NewPasswordHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	case AlgorithmArgon2id:
		return NewArgon2idHasher(DefaultArgon2idParams()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// BcryptHasher hashes passwords with bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher; cost outside bcrypt limits falls back to the default
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a "$2a$..." encoded bcrypt hash with a random salt
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches a bcrypt hash.
// bcrypt.CompareHashAndPassword compares in constant time.
func (h *BcryptHasher) Verify(password, encodedHash string) bool {
	if !strings.HasPrefix(encodedHash, "$2") {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
