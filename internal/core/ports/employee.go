package ports

import (
	"context"

	"github.com/goplay/staff-portal/internal/core/domain"
)

// EmployeeRepository defines persistence for employee records.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.Employee, error)
}

// SkillRepository defines persistence for the skill catalogue.
type SkillRepository interface {
	Create(ctx context.Context, skill *domain.Skill) (*domain.Skill, error)
	FindByName(ctx context.Context, name string) (*domain.Skill, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Skill, error)
	List(ctx context.Context) ([]*domain.Skill, error)
}

// SkillAssignment attaches a skill to a new employee.
type SkillAssignment struct {
	SkillID int64
	Level   string
}

// CreateEmployeeInput carries everything needed to create an employee.
type CreateEmployeeInput struct {
	UserID     int64
	Code       string
	Position   string
	Department string
	Skills     []SkillAssignment
}

// EmployeeService defines the use-cases around employees and skills.
type EmployeeService interface {
	EnsureSkill(ctx context.Context, name, description string) (*domain.Skill, error)
	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Employee, error)
	ListSkills(ctx context.Context) ([]*domain.Skill, error)
}
