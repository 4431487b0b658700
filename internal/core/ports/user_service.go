package ports

import (
	"context"

	"github.com/goplay/staff-portal/internal/core/domain"
)

// CreateUserInput carries the raw registration fields; the service
// normalizes them.
type CreateUserInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// UpdateNameInput carries a new name/surname pair.
type UpdateNameInput struct {
	Name    string
	Surname string
}

// UpdatePasswordInput carries the current and the desired password.
type UpdatePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UserService defines the use-cases around user accounts.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput, role domain.Role) (*domain.UserView, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.UserView, error)
	CreateAdmin(ctx context.Context, input CreateUserInput) (*domain.UserView, error)
	GetByID(ctx context.Context, id int64) (*domain.UserView, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserView, error)
	List(ctx context.Context, limit, offset int) ([]*domain.UserView, error)
	UpdateName(ctx context.Context, userID int64, input UpdateNameInput) (*domain.UserView, error)
	UpdatePassword(ctx context.Context, userID int64, input UpdatePasswordInput) error
	ResetPassword(ctx context.Context, email string) error
	Delete(ctx context.Context, id int64) error
}

// PasswordResetNotice is handed to the delivery channel after a reset.
type PasswordResetNotice struct {
	Email       string
	NewPassword string
}

// PasswordResetNotifier delivers a freshly generated password out-of-band.
type PasswordResetNotifier interface {
	NotifyPasswordReset(notice PasswordResetNotice)
}
