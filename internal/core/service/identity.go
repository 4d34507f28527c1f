package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/rs/zerolog"

	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/ports"
)

// IdentityService resolves session tokens to users. A session either holds
// no association (anonymous) or references exactly one existing user; a
// dangling reference self-heals to anonymous on the next resolution.
type IdentityService struct {
	sessions ports.SessionStore
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewIdentityService(sessions ports.SessionStore, users ports.UserRepository, logger zerolog.Logger) *IdentityService {
	return &IdentityService{sessions: sessions, users: users, logger: logger}
}

// Resolve returns the user bound to token, or (nil, nil) for anonymous.
// Store failures degrade to anonymous rather than failing the request.
func (s *IdentityService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session lookup failed, treating as anonymous")
		return nil, nil
	}
	if userID == "" {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// stale association: the referenced user is gone
			if delErr := s.sessions.Delete(ctx, token); delErr != nil {
				s.logger.Warn().Err(delErr).Msg("failed to clear stale session")
			}
			return nil, nil
		}
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("user lookup failed, treating as anonymous")
		return nil, nil
	}

	return user, nil
}

// ResolveID fetches a user directly by id, degrading to anonymous when the
// user does not exist. Used by bearer-token authentication.
func (s *IdentityService) ResolveID(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("user lookup failed, treating as anonymous")
		return nil, nil
	}
	return user, nil
}

// Bind associates token with userID.
func (s *IdentityService) Bind(ctx context.Context, token, userID string) error {
	return s.sessions.Bind(ctx, token, userID)
}

// Unbind invalidates the whole session for token.
func (s *IdentityService) Unbind(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// NewToken mints an opaque 128-bit session token.
func (s *IdentityService) NewToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("identity: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
