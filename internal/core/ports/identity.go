package ports

import (
	"context"

	"github.com/minishop/storefront/internal/core/domain"
)

// IdentityResolver maps session tokens to user identities. A nil user with
// a nil error means anonymous; lookup failures degrade to anonymous and
// are never escalated to the caller.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
	ResolveID(ctx context.Context, userID string) (*domain.User, error)
	Bind(ctx context.Context, token, userID string) error
	Unbind(ctx context.Context, token string) error
	NewToken() string
}
