package ports

import (
	"context"

	"github.com/goplay/staff-portal/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
//
// Lookups return domain.ErrUserNotFound when nothing matches; Create returns
// domain.ErrEmailExists when the store's unique email index rejects the row.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
