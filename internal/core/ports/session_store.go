package ports

import "context"

// SessionStore maps opaque client tokens to user ids. Get returns an empty
// user id (and no error) for tokens with no association.
type SessionStore interface {
	Get(ctx context.Context, token string) (string, error)
	Bind(ctx context.Context, token, userID string) error
	Delete(ctx context.Context, token string) error
}
