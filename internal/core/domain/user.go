package domain

import (
	"errors"
	"time"
)

// Role names form a small closed set of reference data. The empty string is
// the implicit role of a visitor with no session association.
const (
	RoleAnonymous = ""
	RoleNormal    = "normal"
	RoleSeller    = "seller"
	RoleAdmin     = "admin"
)

var knownRoles = map[string]struct{}{
	RoleNormal: {},
	RoleSeller: {},
	RoleAdmin:  {},
}

// ValidRole reports whether name is one of the known stored roles.
// RoleAnonymous is not a stored role and is rejected.
func ValidRole(name string) bool {
	_, ok := knownRoles[name]
	return ok
}

var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username already used")
var ErrEmailTaken = errors.New("email already used")
var ErrInvalidCredentials = errors.New("username or password incorrect")
var ErrWrongCurrentEmail = errors.New("current email is incorrect")
var ErrWrongCurrentPassword = errors.New("current password is incorrect")
var ErrPasswordMismatch = errors.New("two new passwords do not match")

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
