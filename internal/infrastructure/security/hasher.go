// Package security implements password hashing for user accounts.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes secrets with bcrypt after condensing them through
// SHA-256. The digest is always 32 bytes, well under bcrypt's 72-byte input
// limit, so long secrets are never silently truncated.
type BcryptHasher struct {
	salt string
	cost int
}

// NewBcryptHasher returns a hasher mixing salt into every secret. A cost
// outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewBcryptHasher(salt string, cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{salt: salt, cost: cost}
}

func (h *BcryptHasher) prepare(secret string) []byte {
	sum := sha256.Sum256([]byte(secret + h.salt))
	return sum[:]
}

// Hash returns a bcrypt hash of secret. Two calls with the same secret yield
// different strings because bcrypt draws a fresh salt each time.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(h.prepare(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hashed), nil
}

// Validate reports whether candidate matches storedHash. Malformed hashes
// simply do not match.
func (h *BcryptHasher) Validate(candidate, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), h.prepare(candidate)) == nil
}

// RandomHash hashes an unguessable value. Used as the password of accounts
// nobody should be able to log into with a known password.
func (h *BcryptHasher) RandomHash() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("random hash: %w", err)
	}
	return h.Hash(fmt.Sprintf("%d %d", time.Now().UnixNano(), n.Int64()))
}
