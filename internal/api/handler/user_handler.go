package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goplay/staff-portal/internal/api/metrics"
	"github.com/goplay/staff-portal/internal/api/response"
	"github.com/goplay/staff-portal/internal/core/ports"
)

const defaultListLimit = 1000

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type listUsersQuery struct {
	Limit  int `query:"limit" validate:"gt=0"`
	Offset int `query:"offset" validate:"gte=0"`
}

type userIDParam struct {
	ID int64 `param:"id" validate:"gte=1"`
}

func bindUserID(c echo.Context) (userIDParam, error) {
	var p userIDParam
	if err := integerParams(echo.PathParamsBinder(c).Int64("id", &p.ID).BindError()); err != nil {
		return p, err
	}
	return p, c.Validate(&p)
}

type updateNameRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=domain.UserView}
// @Failure      401  {object}  response.ErrorEnvelope
// @Router       /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Account loaded", user)
}

// UpdateMe changes the authenticated user's name and surname.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateNameRequest  true  "New name and surname"
// @Success      200   {object}  response.Envelope{data=domain.UserView}
// @Failure      400   {object}  response.ErrorEnvelope
// @Router       /user/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req updateNameRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateName(c.Request().Context(), identity.UserID, ports.UpdateNameInput{
		Name:    req.Name,
		Surname: req.Surname,
	})
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Account updated", user)
}

// List returns a page of users ordered by id.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"  default(1000)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200     {object}  response.Envelope{data=[]domain.UserView}
// @Failure      403     {object}  response.ErrorEnvelope
// @Failure      422     {object}  response.ErrorEnvelope
// @Router       /user/all [get]
func (h *UserHandler) List(c echo.Context) error {
	q := listUsersQuery{Limit: defaultListLimit}
	err := echo.QueryParamsBinder(c).
		Int("limit", &q.Limit).
		Int("offset", &q.Offset).
		BindError()
	if err := integerParams(err); err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	users, err := h.users.List(c.Request().Context(), q.Limit, q.Offset)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User list", users)
}

// AdminOnly returns the caller's account; reachable by administrators only.
//
// @Summary      Admin check
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=domain.UserView}
// @Failure      403  {object}  response.ErrorEnvelope
// @Router       /user/admin_only [get]
func (h *UserHandler) AdminOnly(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Admin account", user)
}

// CreateAdmin creates an account with the ADMIN role.
//
// @Summary      Create administrator
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Administrator details"
// @Success      201   {object}  response.Envelope{data=domain.UserView}
// @Failure      400   {object}  response.ErrorEnvelope
// @Failure      403   {object}  response.ErrorEnvelope
// @Router       /user/admin [post]
func (h *UserHandler) CreateAdmin(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.CreateAdmin(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(user.Role)).Inc()
	return response.Success(c, http.StatusCreated, "Administrator created", user)
}

// Delete removes a user account.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.ErrorEnvelope
// @Failure      403  {object}  response.ErrorEnvelope
// @Router       /user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := bindUserID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), p.ID); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User deleted", nil)
}

// GetByID returns one user.
//
// @Summary      Get user by id
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Envelope{data=domain.UserView}
// @Failure      400  {object}  response.ErrorEnvelope
// @Failure      422  {object}  response.ErrorEnvelope
// @Router       /user/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	p, err := bindUserID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User loaded", user)
}

// GetByEmail returns the user registered with email.
//
// @Summary      Get user by email
// @Tags         users
// @Produce      json
// @Param        email  path      string  true  "Email"
// @Success      200    {object}  response.Envelope{data=domain.UserView}
// @Failure      400    {object}  response.ErrorEnvelope
// @Router       /user/email/{email} [get]
func (h *UserHandler) GetByEmail(c echo.Context) error {
	user, err := h.users.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User loaded", user)
}
