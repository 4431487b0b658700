package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

// Bounds of the numeric password handed out by ResetPassword.
const (
	MinResetPassword = 100000
	MaxResetPassword = 999999
)

const (
	defaultListLimit = 1000
	bootstrapName    = "Admin"
)

// UserService implements account creation, lookup and password management.
type UserService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	notifier ports.PasswordResetNotifier
	log      zerolog.Logger
	now      func() time.Time
}

// storedNow is the current time at the one-second precision the stores keep,
// so a freshly created record reads back unchanged.
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	notifier ports.PasswordResetNotifier,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		notifier: notifier,
		log:      log,
		now:      storedNow,
	}
}

// Normalize collapses internal whitespace runs into a single space and trims
// both ends. Every name, surname and email goes through it before storage
// or lookup.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CreateUser registers a USER account. Self-registration always ends here.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.UserView, error) {
	return s.Create(ctx, input, domain.RoleUser)
}

// CreateAdmin registers an ADMIN account.
func (s *UserService) CreateAdmin(ctx context.Context, input ports.CreateUserInput) (*domain.UserView, error) {
	return s.Create(ctx, input, domain.RoleAdmin)
}

// Create validates and stores a new account with the given role. Checks run
// in a fixed order (name, surname, email, uniqueness) so the reported error
// is deterministic.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput, role domain.Role) (*domain.UserView, error) {
	name := Normalize(input.Name)
	surname := Normalize(input.Surname)
	email := Normalize(input.Email)

	switch {
	case name == "":
		return nil, domain.ErrNameInvalid
	case surname == "":
		return nil, domain.ErrSurnameInvalid
	case email == "":
		return nil, domain.ErrEmailInvalid
	case input.Password == "":
		return nil, domain.ErrPasswordEmpty
	}
	if !role.Valid() {
		role = domain.RoleUser
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Surname:      surname,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created.View(), nil
}

// EnsureAdmin creates an ADMIN account for email unless one already exists.
// An empty email disables the bootstrap.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = Normalize(email)
	if email == "" {
		return nil
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.CreateAdmin(ctx, ports.CreateUserInput{
		Name:     bootstrapName,
		Surname:  bootstrapName,
		Email:    email,
		Password: password,
	}); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.View(), nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.UserView, error) {
	user, err := s.repo.FindByEmail(ctx, Normalize(email))
	if err != nil {
		return nil, err
	}
	return user.View(), nil
}

// List returns a page of users ordered by id.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*domain.UserView, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

func (s *UserService) UpdateName(ctx context.Context, userID int64, input ports.UpdateNameInput) (*domain.UserView, error) {
	name := Normalize(input.Name)
	surname := Normalize(input.Surname)
	if name == "" {
		return nil, domain.ErrNameInvalid
	}
	if surname == "" {
		return nil, domain.ErrSurnameInvalid
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Surname = surname
	user.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.View(), nil
}

// UpdatePassword replaces the password of userID after checking the current
// one. Existing sessions stay valid.
func (s *UserService) UpdatePassword(ctx context.Context, userID int64, input ports.UpdatePasswordInput) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Validate(input.OldPassword, user.PasswordHash) {
		return domain.ErrIncorrectPassword
	}
	if input.NewPassword == "" {
		return domain.ErrPasswordEmpty
	}

	if err := s.setPassword(ctx, user, input.NewPassword); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("password updated")
	return nil
}

// ResetPassword assigns a random six-digit password to the account behind
// email and hands it to the notifier for delivery.
func (s *UserService) ResetPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, Normalize(email))
	if err != nil {
		return err
	}

	password, err := GenerateResetPassword()
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user, password); err != nil {
		return err
	}

	s.notifier.NotifyPasswordReset(ports.PasswordResetNotice{Email: user.Email, NewPassword: password})
	s.log.Info().Int64("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) setPassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	return s.repo.Update(ctx, user)
}

// GenerateResetPassword returns a uniformly random decimal string in
// [MinResetPassword, MaxResetPassword].
func GenerateResetPassword() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxResetPassword-MinResetPassword+1))
	if err != nil {
		return "", fmt.Errorf("generate reset password: %w", err)
	}
	return strconv.FormatInt(n.Int64()+MinResetPassword, 10), nil
}
