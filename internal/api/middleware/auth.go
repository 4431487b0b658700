package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/goplay/staff-portal/internal/api/metrics"
	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

const identityKey = "identity"

// ExtractToken returns the session token carried by the request. The
// Authorization bearer header wins; the session cookie is the fallback.
// A malformed Authorization header is an invalid session, an absent token is
// domain.ErrNotLoggedIn.
func ExtractToken(c echo.Context, cookieName string) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", domain.ErrInvalidSession
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", domain.ErrNotLoggedIn
}

// Auth validates the session token and injects the identity into context.
func Auth(sessions ports.SessionService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := ExtractToken(c, cookieName)
			if err != nil {
				metrics.SessionValidationsTotal.WithLabelValues(metrics.ResultFailure).Inc()
				return err
			}

			identity, err := sessions.Validate(c.Request().Context(), token)
			metrics.SessionValidationsTotal.WithLabelValues(metrics.ResultLabel(err)).Inc()
			if err != nil {
				return err
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity injected by Auth.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// SetIdentity injects identity into c. Used by Auth and by tests.
func SetIdentity(c echo.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}
