package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/api/middleware"
	"github.com/minishop/storefront/internal/core/domain"
)

// Envelope is the canonical JSON body for API endpoints.
type Envelope struct {
	Results any `json:"results"`
	Errors  any `json:"errors"`
}

func results(c echo.Context, status int, res any) error {
	return c.JSON(status, Envelope{Results: res})
}

func apiErrors(c echo.Context, status int, errs any) error {
	return c.JSON(status, Envelope{Errors: errs})
}

// apiMethods maps the _ext_method POST field to operation handlers. Routes
// leave unsupported operations nil.
type apiMethods struct {
	pull   echo.HandlerFunc
	create echo.HandlerFunc
	update echo.HandlerFunc
	delete echo.HandlerFunc
}

// dispatch routes a POST by its _ext_method field. Unknown or unsupported
// methods get the 405 envelope.
func (m apiMethods) dispatch(c echo.Context) error {
	var h echo.HandlerFunc
	switch c.FormValue("_ext_method") {
	case "pull":
		h = m.pull
	case "create":
		h = m.create
	case "update":
		h = m.update
	case "delete":
		h = m.delete
	}
	if h == nil {
		return apiErrors(c, http.StatusMethodNotAllowed, "failure to match the appropriate method")
	}
	return h(c)
}

// MethodNotSupported answers direct reads on API routes that only accept
// the POST dispatch.
func MethodNotSupported(c echo.Context) error {
	return apiErrors(c, http.StatusMethodNotAllowed, "getting is not supported")
}

// apiUser extracts the authenticated user. The role guard guarantees
// presence; this is the fast-fail check before any service call.
func apiUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusForbidden, "no access for unauthorized")
	}
	return user, nil
}
