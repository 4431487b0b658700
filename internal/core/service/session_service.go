package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

const (
	DefaultSessionTTL = 30 * 24 * time.Hour
	tokenIssuer       = "staff-portal"
)

// sessionClaims is the payload of a session token.
type sessionClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionService implements login, token validation and logout on top of
// HS256 JWTs. Validation is stateless except for the revocation lookup.
type SessionService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	revoker ports.TokenRevoker
	secret  []byte
	ttl     time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

func NewSessionService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	revoker ports.TokenRevoker,
	jwtSecret string,
	ttl time.Duration,
	log zerolog.Logger,
) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		users:   users,
		hasher:  hasher,
		revoker: revoker,
		secret:  []byte(jwtSecret),
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// TTL is the lifetime of every issued token.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Login checks credentials and mints a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error) {
	email := Normalize(credentials.Email)
	if email == "" || credentials.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Validate(credentials.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("session issued")
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: user.View()}, nil
}

// Validate decodes token and returns the identity bound to it.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrNotLoggedIn
	}

	identity, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, identity.TokenID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidSession
		}
	}

	return identity, nil
}

// Logout revokes token until its expiry. Empty, malformed or already expired
// tokens need no revocation, so logging out anonymously is a no-op.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	identity, err := s.parse(token)
	if err != nil {
		return nil
	}

	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
	}

	s.log.Info().Int64("user_id", identity.UserID).Msg("session revoked")
	return nil
}

func (s *SessionService) generateToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	claims := sessionClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

func (s *SessionService) parse(token string) (*domain.Identity, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, domain.ErrInvalidSession
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 1 || claims.ID == "" || !claims.Role.Valid() {
		return nil, domain.ErrInvalidSession
	}

	return &domain.Identity{
		UserID:    userID,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
