package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goplay/staff-portal/internal/core/domain"
)

const (
	employeesCollection = "employees"
	skillsCollection    = "skills"
)

// EmployeeRepository implements ports.EmployeeRepository. Skill links are
// embedded in the employee document.
type EmployeeRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{db: db, coll: db.Collection(employeesCollection)}
}

type mongoEmployeeSkill struct {
	SkillID   int64  `bson:"skill_id"`
	Name      string `bson:"name"`
	Level     string `bson:"level,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

type mongoEmployee struct {
	ID         int64                `bson:"_id"`
	UserID     int64                `bson:"user_id"`
	Code       string               `bson:"code"`
	Position   string               `bson:"position,omitempty"`
	Department string               `bson:"department,omitempty"`
	Skills     []mongoEmployeeSkill `bson:"skills"`
	CreatedAt  int64                `bson:"created_at"`
	UpdatedAt  int64                `bson:"updated_at"`
}

func toMongoEmployee(e *domain.Employee) mongoEmployee {
	skills := make([]mongoEmployeeSkill, 0, len(e.Skills))
	for _, s := range e.Skills {
		skills = append(skills, mongoEmployeeSkill{
			SkillID:   s.SkillID,
			Name:      s.Name,
			Level:     s.Level,
			CreatedAt: s.CreatedAt.Unix(),
		})
	}
	return mongoEmployee{
		ID:         e.ID,
		UserID:     e.UserID,
		Code:       e.Code,
		Position:   e.Position,
		Department: e.Department,
		Skills:     skills,
		CreatedAt:  e.CreatedAt.Unix(),
		UpdatedAt:  e.UpdatedAt.Unix(),
	}
}

func (me mongoEmployee) toDomain() *domain.Employee {
	skills := make([]domain.EmployeeSkill, 0, len(me.Skills))
	for _, s := range me.Skills {
		skills = append(skills, domain.EmployeeSkill{
			SkillID:   s.SkillID,
			Name:      s.Name,
			Level:     s.Level,
			CreatedAt: unixToTime(s.CreatedAt),
		})
	}
	return &domain.Employee{
		ID:         me.ID,
		UserID:     me.UserID,
		Code:       me.Code,
		Position:   me.Position,
		Department: me.Department,
		Skills:     skills,
		CreatedAt:  unixToTime(me.CreatedAt),
		UpdatedAt:  unixToTime(me.UpdatedAt),
	}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, employeesCollection)
	if err != nil {
		return nil, err
	}

	created := *e
	created.ID = id
	if _, err := r.coll.InsertOne(ctx, toMongoEmployee(&created)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmployeeExists
		}
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	return &created, nil
}

func (r *EmployeeRepository) FindByUserID(ctx context.Context, userID int64) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoEmployee
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return me.toDomain(), nil
}

// SkillRepository implements ports.SkillRepository.
type SkillRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewSkillRepository(db *mongo.Database) *SkillRepository {
	return &SkillRepository{db: db, coll: db.Collection(skillsCollection)}
}

type mongoSkill struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (ms mongoSkill) toDomain() *domain.Skill {
	return &domain.Skill{
		ID:          ms.ID,
		Name:        ms.Name,
		Description: ms.Description,
		CreatedAt:   unixToTime(ms.CreatedAt),
		UpdatedAt:   unixToTime(ms.UpdatedAt),
	}
}

func (r *SkillRepository) Create(ctx context.Context, s *domain.Skill) (*domain.Skill, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, skillsCollection)
	if err != nil {
		return nil, err
	}

	created := *s
	created.ID = id
	doc := mongoSkill{
		ID:          id,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt.Unix(),
		UpdatedAt:   s.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByName(ctx, s.Name)
		}
		return nil, fmt.Errorf("insert skill: %w", err)
	}
	return &created, nil
}

func (r *SkillRepository) FindByName(ctx context.Context, name string) (*domain.Skill, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoSkill
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSkillNotFound
		}
		return nil, fmt.Errorf("find skill: %w", err)
	}
	return ms.toDomain(), nil
}

// FindByIDs returns the skills whose ids are listed; missing ids are skipped.
func (r *SkillRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Skill, error) {
	if len(ids) == 0 {
		return []*domain.Skill{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *SkillRepository) List(ctx context.Context) ([]*domain.Skill, error) {
	return r.find(ctx, bson.M{})
}

func (r *SkillRepository) find(ctx context.Context, filter bson.M) ([]*domain.Skill, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find skills: %w", err)
	}
	defer cur.Close(ctx)

	skills := make([]*domain.Skill, 0)
	for cur.Next(ctx) {
		var ms mongoSkill
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode skill: %w", err)
		}
		skills = append(skills, ms.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find skills: %w", err)
	}
	return skills, nil
}
