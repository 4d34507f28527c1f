package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/ports"
)

// AuthService implements registration, login and account mutation.
//
// All password inputs are the client-side SHA-256 hex digest of what the
// user typed; the digest is what gets bcrypt-hashed and persisted, so the
// raw password never reaches the server.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// CheckAvailability reports whether username and email are both free,
// returning the domain error for the first field already in use. Create's
// unique indexes remain the last line of defense against insert races.
func (s *AuthService) CheckAvailability(ctx context.Context, username, email string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	return nil
}

// Register creates a user with the normal role. Uniqueness violations
// surface as domain.ErrUsernameTaken / domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, username, email, passwordDigest string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passwordDigest), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleNormal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("user registered")
	return created, nil
}

// Login verifies the credentials. Both an unknown username and a wrong
// password collapse into domain.ErrInvalidCredentials so the caller cannot
// tell which one was wrong.
func (s *AuthService) Login(ctx context.Context, username, passwordDigest string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(passwordDigest)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken signs a bearer token for programmatic API clients.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// ChangeEmail replaces the user's email after re-checking the claimed
// current value against the stored one.
func (s *AuthService) ChangeEmail(ctx context.Context, userID, currEmail, newEmail string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email != currEmail {
		return domain.ErrWrongCurrentEmail
	}

	if err := s.users.UpdateEmail(ctx, userID, newEmail); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("user email changed")
	return nil
}

// ChangePassword replaces the stored hash after verifying the claimed
// current password digest against it.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currDigest, newDigest string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currDigest)) != nil {
		return domain.ErrWrongCurrentPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newDigest), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("user password changed")
	return nil
}
