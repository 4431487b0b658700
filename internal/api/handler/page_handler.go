package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/api/metrics"
	"github.com/goplay/staff-portal/internal/api/middleware"
	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

// PageHandler serves the server-rendered pages. Pages carry the session in
// the cookie only.
type PageHandler struct {
	users       ports.UserService
	sessions    ports.SessionService
	cookie      SessionCookie
	redirectURL string
	log         zerolog.Logger
	now         func() time.Time
}

func NewPageHandler(
	users ports.UserService,
	sessions ports.SessionService,
	cookie SessionCookie,
	redirectURL string,
	log zerolog.Logger,
) *PageHandler {
	return &PageHandler{
		users:       users,
		sessions:    sessions,
		cookie:      cookie,
		redirectURL: redirectURL,
		log:         log,
		now:         func() time.Time { return time.Now().Truncate(time.Second) },
	}
}

type mainPage struct {
	Date time.Time
}

type registerPage struct {
	Date    time.Time
	Error   string
	Success string
	Name    string
	Surname string
	Email   string
}

type authPage struct {
	User *domain.UserView
}

type pageLoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Main renders the login form.
func (h *PageHandler) Main(c echo.Context) error {
	return c.Render(http.StatusOK, "main.html", mainPage{Date: h.now()})
}

// Login signs in from the form. Success sets the cookie and redirects with
// 303; any failure sends the browser back to the form with 302.
func (h *PageHandler) Login(c echo.Context) error {
	var form pageLoginForm
	if err := bind(c, &form); err != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	h.log.Info().Str("email", form.Email).Msg("page login requested")
	session, err := h.sessions.Login(c.Request().Context(), domain.Credentials{
		Email:    form.Email,
		Password: form.Password,
	})
	metrics.LoginsTotal.WithLabelValues("page", metrics.ResultLabel(err)).Inc()
	if err != nil {
		h.log.Warn().Str("email", form.Email).Err(err).Msg("page login failed")
		return c.Redirect(http.StatusFound, "/")
	}

	h.cookie.set(c, session.Token, session.ExpiresAt)
	h.log.Info().Str("email", form.Email).Str("redirect", h.redirectURL).Msg("page login succeeded")
	return c.Redirect(http.StatusSeeOther, h.redirectURL)
}

// RegisterForm renders the registration form.
func (h *PageHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", registerPage{Date: h.now()})
}

// Register creates an account from the form. Domain failures re-render the
// form with the message and the submitted values.
func (h *PageHandler) Register(c echo.Context) error {
	var form registerRequest
	if err := bind(c, &form); err != nil {
		return err
	}

	_, err := h.users.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:     form.Name,
		Surname:  form.Surname,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		de, ok := domain.AsError(err)
		if !ok {
			return err
		}
		return c.Render(de.StatusCode, "register.html", registerPage{
			Date:    h.now(),
			Error:   de.Message,
			Name:    form.Name,
			Surname: form.Surname,
			Email:   form.Email,
		})
	}
	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleUser)).Inc()

	return c.Redirect(http.StatusSeeOther, "/")
}

// Check renders the account page for the session in the cookie.
func (h *PageHandler) Check(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "auth.html", authPage{User: user})
}

// Logout revokes the cookie session and returns to the login form.
func (h *PageHandler) Logout(c echo.Context) error {
	metrics.LogoutsTotal.Inc()
	if token, err := middleware.ExtractToken(c, h.cookie.Name); err == nil {
		if err := h.sessions.Logout(c.Request().Context(), token); err != nil {
			h.log.Error().Err(err).Msg("page logout failed")
		}
	}
	h.cookie.clear(c)
	return c.Redirect(http.StatusSeeOther, "/")
}
