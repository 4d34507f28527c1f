// Package forms implements field-level validation for the storefront's
// request forms. One rule set, two named profiles: FrontEnd validates what
// a human typed (raw password, 8-20 chars, with confirmation), BackEnd
// validates what actually gets persisted (the client-side SHA-256 hex
// digest, exactly 64 chars, no confirmation requirement).
package forms

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	usernameRule = "required,min=3,max=20"
	emailRule    = "required,email"
)

var validate = validator.New()

// Errors is a structured set of per-field error messages. Validation never
// raises; it returns this.
type Errors map[string][]string

// Add appends msg to the errors of field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// AddAll appends msg to the errors of every named field.
func (e Errors) AddAll(msg string, fields ...string) {
	for _, f := range fields {
		e.Add(f, msg)
	}
}

// Empty reports whether validation passed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Profile is a named validation configuration. The two profiles differ
// only in the password rule and whether a confirmation field is required.
type Profile struct {
	name            string
	passwordRule    string
	requiresConfirm bool
}

var (
	FrontEnd = Profile{name: "frontend", passwordRule: "required,min=8,max=20", requiresConfirm: true}
	BackEnd  = Profile{name: "backend", passwordRule: "required,len=64,hexadecimal"}
)

func (p Profile) String() string { return p.name }

// FieldRules exposes the constraint strings per field, for rendering clients.
func (p Profile) FieldRules() map[string]string {
	return map[string]string{
		"username": usernameRule,
		"email":    emailRule,
		"password": p.passwordRule,
	}
}

// Register carries the registration form fields.
type Register struct {
	Username      string `form:"username" json:"username"`
	Email         string `form:"email" json:"email"`
	Password      string `form:"password" json:"password"`
	PasswordAgain string `form:"password_again" json:"password_again"`
}

// ValidateRegister checks the registration form under the profile.
// Equality of password and password_again is the caller's concern.
func (p Profile) ValidateRegister(f Register) Errors {
	errs := Errors{}
	p.check(errs, "username", f.Username, usernameRule)
	p.check(errs, "email", f.Email, emailRule)
	p.check(errs, "password", f.Password, p.passwordRule)
	if p.requiresConfirm {
		p.check(errs, "password_again", f.PasswordAgain, p.passwordRule)
	}
	return errs
}

// Login carries the login form fields.
type Login struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// ValidateLogin checks the login form under the profile.
func (p Profile) ValidateLogin(f Login) Errors {
	errs := Errors{}
	p.check(errs, "username", f.Username, usernameRule)
	p.check(errs, "password", f.Password, p.passwordRule)
	return errs
}

// ChangeEmail carries the email-change API fields.
type ChangeEmail struct {
	CurrEmail string `form:"curr_email" json:"curr_email"`
	NewEmail  string `form:"new_email" json:"new_email"`
}

// ValidateChangeEmail checks the email-change form. Both profiles apply
// the same address rules.
func (p Profile) ValidateChangeEmail(f ChangeEmail) Errors {
	errs := Errors{}
	p.check(errs, "curr_email", f.CurrEmail, emailRule)
	p.check(errs, "new_email", f.NewEmail, emailRule)
	return errs
}

// ChangePassword carries the password-change API fields.
type ChangePassword struct {
	CurrPassword     string `form:"curr_password" json:"curr_password"`
	NewPassword      string `form:"new_password" json:"new_password"`
	NewPasswordAgain string `form:"new_password_again" json:"new_password_again"`
}

// ValidateChangePassword checks the password-change form. The confirmation
// field follows the profile's password rule; equality with new_password is
// the caller's concern.
func (p Profile) ValidateChangePassword(f ChangePassword) Errors {
	errs := Errors{}
	p.check(errs, "curr_password", f.CurrPassword, p.passwordRule)
	p.check(errs, "new_password", f.NewPassword, p.passwordRule)
	p.check(errs, "new_password_again", f.NewPasswordAgain, p.passwordRule)
	return errs
}

func (p Profile) check(errs Errors, field, value, rule string) {
	if err := validate.Var(value, rule); err != nil {
		errs.Add(field, message(err))
	}
}

// message converts the first validation failure into a human-readable,
// field-agnostic message.
func message(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}

	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "hexadecimal":
		return "must be a hex digest"
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
