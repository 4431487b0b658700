package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/api/metrics"
	"github.com/goplay/staff-portal/internal/api/middleware"
	"github.com/goplay/staff-portal/internal/api/response"
	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

type AuthHandler struct {
	users    ports.UserService
	sessions ports.SessionService
	cookie   SessionCookie
	log      zerolog.Logger
}

func NewAuthHandler(users ports.UserService, sessions ports.SessionService, cookie SessionCookie, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, cookie: cookie, log: log}
}

// Name, surname and email are checked by the user service so the client sees
// its messages in a fixed order.
type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Surname  string `json:"surname" form:"surname"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  response.Envelope{data=domain.UserView}
// @Failure      400   {object}  response.ErrorEnvelope
// @Failure      500   {object}  response.ErrorEnvelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(user.Role)).Inc()

	return response.Success(c, http.StatusCreated, "Registration successful", user)
}

// Login authenticates with the OAuth2 password form and returns a bearer
// token. The same token is also set as the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Email"
// @Param        password  formData  string  true  "Password"
// @Success      200   {object}  response.Envelope{data=tokenResponse}
// @Failure      401   {object}  response.ErrorEnvelope
// @Failure      422   {object}  response.ErrorEnvelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := bindAndValidate(c, &form); err != nil {
		return err
	}

	session, err := h.sessions.Login(c.Request().Context(), domain.Credentials{
		Email:    form.Username,
		Password: form.Password,
	})
	metrics.LoginsTotal.WithLabelValues("api", metrics.ResultLabel(err)).Inc()
	if err != nil {
		h.log.Warn().Str("email", form.Username).Err(err).Msg("login failed")
		return err
	}

	h.cookie.set(c, session.Token, session.ExpiresAt)
	return response.Success(c, http.StatusOK, "Login successful", tokenResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
	})
}

// Logout revokes the presented session, if any, and clears the cookie.
// It succeeds without a session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200   {object}  response.Envelope
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	metrics.LogoutsTotal.Inc()
	if token, err := middleware.ExtractToken(c, h.cookie.Name); err == nil {
		if err := h.sessions.Logout(c.Request().Context(), token); err != nil {
			return err
		}
	}
	h.cookie.clear(c)
	return response.Success(c, http.StatusOK, "Logout successful", nil)
}

// Validate returns the identity proven by the session token.
//
// @Summary      Validate session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  response.Envelope{data=domain.Identity}
// @Failure      401   {object}  response.ErrorEnvelope
// @Router       /auth/validate [get]
func (h *AuthHandler) Validate(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Token is valid", identity)
}

// UpdatePassword changes the caller's password after checking the old one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Old and new password"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.ErrorEnvelope
// @Failure      401   {object}  response.ErrorEnvelope
// @Router       /auth/password/update [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.users.UpdatePassword(c.Request().Context(), identity.UserID, ports.UpdatePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Password updated", nil)
}

// ResetPassword replaces the password of the account behind email with a
// random numeric one and sends it out-of-band.
//
// @Summary      Reset password
// @Tags         auth
// @Produce      json
// @Param        email  query     string  true  "Account email"
// @Success      200    {object}  response.Envelope
// @Failure      400    {object}  response.ErrorEnvelope
// @Failure      422    {object}  response.ErrorEnvelope
// @Router       /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		email = c.FormValue("email")
	}
	if email == "" {
		return response.NewValidationError("email is required")
	}

	err := h.users.ResetPassword(c.Request().Context(), email)
	metrics.PasswordResetsTotal.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Password reset successful", nil)
}
