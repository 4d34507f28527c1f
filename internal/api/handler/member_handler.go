package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/api/forms"
	"github.com/minishop/storefront/internal/api/middleware"
	"github.com/minishop/storefront/internal/core/domain"
)

// centerDestinations maps each role to its center page. All three roles
// currently share the member-info page; per-role divergence is a one-line
// change here.
var centerDestinations = map[string]string{
	domain.RoleNormal: "/member/info",
	domain.RoleSeller: "/member/info",
	domain.RoleAdmin:  "/member/info",
}

// MemberHandler serves the member-center pages.
type MemberHandler struct{}

func NewMemberHandler() *MemberHandler {
	return &MemberHandler{}
}

// Center is the unified center entry: it redirects the caller to the
// center page for their role.
//
// @Summary      Member center entry
// @Tags         member
// @Success      302
// @Router       /member [get]
func (h *MemberHandler) Center(c echo.Context) error {
	if user := middleware.CurrentUser(c); user != nil {
		if dest, ok := centerDestinations[user.Role]; ok {
			return c.Redirect(http.StatusFound, dest)
		}
	}
	return c.Redirect(http.StatusFound, indexDestination)
}

// Info serves the member's account details.
//
// @Summary      Member info
// @Tags         member
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /member/info [get]
func (h *MemberHandler) Info(c echo.Context) error {
	user, err := apiUser(c)
	if err != nil {
		return err
	}
	return results(c, http.StatusOK, map[string]any{
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// EmailForm describes the email-change fields for the rendering client.
//
// @Summary      Email change form
// @Tags         member
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /member/email [get]
func (h *MemberHandler) EmailForm(c echo.Context) error {
	user, err := apiUser(c)
	if err != nil {
		return err
	}
	return results(c, http.StatusOK, map[string]any{
		"email":  user.Email,
		"fields": map[string]string{"curr_email": "required,email", "new_email": "required,email"},
	})
}

// PasswordForm describes the password-change fields for the rendering
// client. The constraints are the front-end profile's: they bound what
// the human types, before client-side hashing.
//
// @Summary      Password change form
// @Tags         member
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /member/password [get]
func (h *MemberHandler) PasswordForm(c echo.Context) error {
	if _, err := apiUser(c); err != nil {
		return err
	}
	rule := forms.FrontEnd.FieldRules()["password"]
	return results(c, http.StatusOK, map[string]any{
		"fields": map[string]string{
			"curr_password":      rule,
			"new_password":       rule,
			"new_password_again": rule,
		},
	})
}

// Forbidden serves the generic unauthorized destination.
//
// @Summary      Forbidden page
// @Tags         member
// @Produce      json
// @Success      403  {object}  Envelope
// @Router       /forbidden [get]
func (h *MemberHandler) Forbidden(c echo.Context) error {
	return apiErrors(c, http.StatusForbidden, "access forbidden")
}
