package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goplay/staff-portal/internal/api/response"
	"github.com/goplay/staff-portal/internal/core/ports"
)

type EmployeeHandler struct {
	employees ports.EmployeeService
}

func NewEmployeeHandler(employees ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// Me returns the employee record of the authenticated user.
//
// @Summary      Current employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=domain.Employee}
// @Failure      400  {object}  response.ErrorEnvelope
// @Failure      401  {object}  response.ErrorEnvelope
// @Router       /employee/me [get]
func (h *EmployeeHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	employee, err := h.employees.GetByUserID(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Employee loaded", employee)
}

// Skills returns the skill catalogue.
//
// @Summary      List skills
// @Tags         employees
// @Produce      json
// @Success      200  {object}  response.Envelope{data=[]domain.Skill}
// @Router       /skill/all [get]
func (h *EmployeeHandler) Skills(c echo.Context) error {
	skills, err := h.employees.ListSkills(c.Request().Context())
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Skill list", skills)
}
