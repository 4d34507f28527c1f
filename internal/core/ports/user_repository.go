package ports

import (
	"context"

	"github.com/minishop/storefront/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Create enforces uniqueness of username and email and reports violations
// as domain.ErrUsernameTaken / domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
