package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/core/domain"
)

// DefaultForbidden is where unauthorized page requests land when no
// fallback destination is given.
const DefaultForbidden = "/forbidden"

// RequireRoles gates the wrapped handlers behind role membership. The role
// list may include domain.RoleAnonymous, meaning "anonymous or these
// roles". An unauthorized caller is redirected to fallback; authorization
// failure is a control-flow decision, never an error.
func RequireRoles(fallback string, roles ...string) echo.MiddlewareFunc {
	if fallback == "" {
		fallback = DefaultForbidden
	}
	allowed := roleSet(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[currentRole(c)]; !ok {
				return c.Redirect(http.StatusFound, fallback)
			}
			return next(c)
		}
	}
}

// RequireRolesJSON is the API flavor of RequireRoles: an unauthorized
// caller gets the 403 JSON envelope instead of a redirect.
func RequireRolesJSON(roles ...string) echo.MiddlewareFunc {
	allowed := roleSet(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[currentRole(c)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]any{
					"results": nil,
					"errors":  "no access for unauthorized",
				})
			}
			return next(c)
		}
	}
}

func roleSet(roles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func currentRole(c echo.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.Role
	}
	return domain.RoleAnonymous
}
