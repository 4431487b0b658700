package ports

import (
	"context"
	"time"

	"github.com/goplay/staff-portal/internal/core/domain"
)

// SessionService issues, validates and revokes session tokens. The same
// tokens back the cookie flow of the pages and the bearer flow of the API.
type SessionService interface {
	Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error)
	Validate(ctx context.Context, token string) (*domain.Identity, error)
	Logout(ctx context.Context, token string) error
	TTL() time.Duration
}

// TokenRevoker remembers revoked token ids until their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// PasswordHasher turns secrets into verifiable hashes.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Validate(candidate, storedHash string) bool
	RandomHash() (string, error)
}
