package ports

import (
	"context"

	"github.com/minishop/storefront/internal/core/domain"
)

// AuthService implements account lifecycle operations. Password arguments
// are the client-side SHA-256 hex digests, never raw passwords.
type AuthService interface {
	Register(ctx context.Context, username, email, passwordDigest string) (*domain.User, error)
	CheckAvailability(ctx context.Context, username, email string) error
	Login(ctx context.Context, username, passwordDigest string) (*domain.User, error)
	IssueToken(user *domain.User) (string, error)
	ChangeEmail(ctx context.Context, userID, currEmail, newEmail string) error
	ChangePassword(ctx context.Context, userID, currDigest, newDigest string) error
}
