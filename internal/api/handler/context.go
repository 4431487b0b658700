package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/goplay/staff-portal/internal/api/middleware"
	"github.com/goplay/staff-portal/internal/api/response"
	"github.com/goplay/staff-portal/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. Its
// absence means the route was mounted without Auth, so the caller is treated
// as anonymous.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrNotLoggedIn
	}
	return identity, nil
}

const malformedRequest = "request body is malformed"

// bind decodes the request into dst. Decoder and parser messages stay out of
// the response; the client gets a 422 instead.
func bind(c echo.Context, dst any) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		return response.NewValidationError(malformedRequest)
	}
	return err
}

// bindAndValidate binds the request into dst and runs the registered validator.
func bindAndValidate(c echo.Context, dst any) error {
	if err := bind(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// integerParams turns a ValueBinder failure into a field message such as
// "id must be an integer".
func integerParams(err error) error {
	if err == nil {
		return nil
	}
	var be *echo.BindingError
	if errors.As(err, &be) {
		return response.NewValidationError(be.Field + " must be an integer")
	}
	return response.NewValidationError(malformedRequest)
}

// SessionCookie describes the cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (sc SessionCookie) set(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sc SessionCookie) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
