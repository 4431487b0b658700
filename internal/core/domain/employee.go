package domain

import (
	"net/http"
	"time"
)

// Skill is a named competence that employees can be tagged with.
type Skill struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmployeeSkill links a skill to an employee with an optional level.
type EmployeeSkill struct {
	SkillID   int64     `json:"skill_id"`
	Name      string    `json:"name"`
	Level     string    `json:"level,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee is the staff record attached one-to-one to a User.
type Employee struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Code       string          `json:"code"`
	Position   string          `json:"position,omitempty"`
	Department string          `json:"department,omitempty"`
	Skills     []EmployeeSkill `json:"skills"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

var (
	ErrEmployeeCodeInvalid = newError(KindValidation, http.StatusBadRequest, "Employee code is not valid")
	ErrSkillNameInvalid    = newError(KindValidation, http.StatusBadRequest, "Skill name is not valid")
	ErrEmployeeExists      = newError(KindConflict, http.StatusBadRequest, "Employee already exists")
	ErrEmployeeNotFound    = newError(KindNotFound, http.StatusBadRequest, "Employee not found")
	ErrSkillNotFound       = newError(KindNotFound, http.StatusBadRequest, "Skill not found")
)
