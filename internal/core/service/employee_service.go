package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

// EmployeeService manages employee records and the skill catalogue.
type EmployeeService struct {
	employees ports.EmployeeRepository
	skills    ports.SkillRepository
	users     ports.UserRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewEmployeeService(
	employees ports.EmployeeRepository,
	skills ports.SkillRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		skills:    skills,
		users:     users,
		log:       log,
		now:       storedNow,
	}
}

// EnsureSkill returns the skill called name, creating it when missing.
func (s *EmployeeService) EnsureSkill(ctx context.Context, name, description string) (*domain.Skill, error) {
	name = Normalize(name)
	if name == "" {
		return nil, domain.ErrSkillNameInvalid
	}

	existing, err := s.skills.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrSkillNotFound) {
		return nil, err
	}

	now := s.now()
	return s.skills.Create(ctx, &domain.Skill{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// CreateEmployee attaches an employee record to an existing user. A user
// has at most one employee record.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input ports.CreateEmployeeInput) (*domain.Employee, error) {
	code := Normalize(input.Code)
	if code == "" {
		return nil, domain.ErrEmployeeCodeInvalid
	}

	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	_, err := s.employees.FindByUserID(ctx, input.UserID)
	switch {
	case err == nil:
		return nil, domain.ErrEmployeeExists
	case !errors.Is(err, domain.ErrEmployeeNotFound):
		return nil, err
	}

	now := s.now()
	skills, err := s.resolveSkills(ctx, input.Skills, now)
	if err != nil {
		return nil, err
	}

	created, err := s.employees.Create(ctx, &domain.Employee{
		UserID:     input.UserID,
		Code:       code,
		Position:   Normalize(input.Position),
		Department: Normalize(input.Department),
		Skills:     skills,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", input.UserID).Str("code", code).Msg("employee created")
	return created, nil
}

func (s *EmployeeService) resolveSkills(ctx context.Context, assignments []ports.SkillAssignment, now time.Time) ([]domain.EmployeeSkill, error) {
	if len(assignments) == 0 {
		return []domain.EmployeeSkill{}, nil
	}

	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.SkillID)
	}
	found, err := s.skills.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Skill, len(found))
	for _, sk := range found {
		byID[sk.ID] = sk
	}

	out := make([]domain.EmployeeSkill, 0, len(assignments))
	for _, a := range assignments {
		sk, ok := byID[a.SkillID]
		if !ok {
			return nil, domain.ErrSkillNotFound
		}
		out = append(out, domain.EmployeeSkill{SkillID: sk.ID, Name: sk.Name, Level: a.Level, CreatedAt: now})
	}
	return out, nil
}

func (s *EmployeeService) GetByUserID(ctx context.Context, userID int64) (*domain.Employee, error) {
	return s.employees.FindByUserID(ctx, userID)
}

func (s *EmployeeService) ListSkills(ctx context.Context) ([]*domain.Skill, error) {
	return s.skills.List(ctx)
}
