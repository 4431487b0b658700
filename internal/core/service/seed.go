package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

// SampleEmployee describes the demo record created by SeedSampleEmployee.
type SampleEmployee struct {
	User       ports.CreateUserInput
	Code       string
	Position   string
	Department string
	Skills     []SampleSkill
}

type SampleSkill struct {
	Name        string
	Description string
	Level       string
}

// DefaultSampleEmployee is the record the seed command creates.
func DefaultSampleEmployee(password string) SampleEmployee {
	return SampleEmployee{
		User: ports.CreateUserInput{
			Name:     "Nguyen",
			Surname:  "Van A",
			Email:    "employee@example.com",
			Password: password,
		},
		Code:       "EMP001",
		Position:   "Senior Backend Developer",
		Department: "Engineering",
		Skills: []SampleSkill{
			{Name: "Go Backend", Description: "HTTP APIs in Go"},
			{Name: "DevOps", Description: "CI/CD & container orchestration"},
		},
	}
}

// SeedSampleEmployee creates the sample user, its skills and its employee
// record. Running it again is a no-op that reports the existing record.
func SeedSampleEmployee(ctx context.Context, users *UserService, employees *EmployeeService, sample SampleEmployee, log zerolog.Logger) (*domain.Employee, error) {
	user, err := users.GetByEmail(ctx, sample.User.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = users.CreateUser(ctx, sample.User)
	}
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}

	existing, err := employees.GetByUserID(ctx, user.ID)
	if err == nil {
		log.Info().Str("email", user.Email).Str("code", existing.Code).Msg("employee already exists")
		return existing, nil
	}
	if !errors.Is(err, domain.ErrEmployeeNotFound) {
		return nil, fmt.Errorf("seed employee: %w", err)
	}

	assignments := make([]ports.SkillAssignment, 0, len(sample.Skills))
	for _, sk := range sample.Skills {
		skill, err := employees.EnsureSkill(ctx, sk.Name, sk.Description)
		if err != nil {
			return nil, fmt.Errorf("seed skill %q: %w", sk.Name, err)
		}
		assignments = append(assignments, ports.SkillAssignment{SkillID: skill.ID, Level: sk.Level})
	}

	employee, err := employees.CreateEmployee(ctx, ports.CreateEmployeeInput{
		UserID:     user.ID,
		Code:       sample.Code,
		Position:   sample.Position,
		Department: sample.Department,
		Skills:     assignments,
	})
	if err != nil {
		return nil, fmt.Errorf("seed employee: %w", err)
	}

	log.Info().Str("code", employee.Code).Int("skills", len(employee.Skills)).Msg("seeded sample employee")
	return employee, nil
}
