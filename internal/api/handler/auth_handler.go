package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/api/forms"
	"github.com/minishop/storefront/internal/api/metrics"
	"github.com/minishop/storefront/internal/api/middleware"
	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/ports"
)

const (
	registerFormatError = "registration info format error"
	loginFormatError    = "login info format error"
	indexDestination    = "/goods"
	loginDestination    = "/login"
)

type AuthHandler struct {
	auth     ports.AuthService
	identity ports.IdentityResolver
}

func NewAuthHandler(auth ports.AuthService, identity ports.IdentityResolver) *AuthHandler {
	return &AuthHandler{auth: auth, identity: identity}
}

// RegisterForm describes the registration fields for the rendering client.
//
// @Summary      Registration form constraints
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /register [get]
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return results(c, http.StatusOK, map[string]any{"fields": forms.FrontEnd.FieldRules()})
}

// LoginForm describes the login fields for the rendering client.
//
// @Summary      Login form constraints
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return results(c, http.StatusOK, map[string]any{"fields": forms.FrontEnd.FieldRules()})
}

// Register creates an account and binds the session.
//
// The payload carries the client-side password digest, so it is re-checked
// with the back-end profile regardless of what the front end claims to
// have validated.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      303
// @Failure      400  {object}  Envelope
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var f forms.Register
	if err := c.Bind(&f); err != nil {
		return apiErrors(c, http.StatusBadRequest, "invalid payload")
	}
	ctx := c.Request().Context()

	allFields := []string{"username", "email", "password", "password_again"}
	if errs := forms.BackEnd.ValidateRegister(f); !errs.Empty() {
		fieldErrs := forms.Errors{}
		fieldErrs.AddAll(registerFormatError, allFields...)
		return apiErrors(c, http.StatusBadRequest, fieldErrs)
	}

	if err := h.auth.CheckAvailability(ctx, f.Username, f.Email); err != nil {
		fieldErrs := forms.Errors{}
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			fieldErrs.Add("username", err.Error())
		case errors.Is(err, domain.ErrEmailTaken):
			fieldErrs.Add("email", err.Error())
		default:
			return err
		}
		return apiErrors(c, http.StatusBadRequest, fieldErrs)
	}

	if f.Password != f.PasswordAgain {
		fieldErrs := forms.Errors{}
		fieldErrs.AddAll(domain.ErrPasswordMismatch.Error(), "password", "password_again")
		return apiErrors(c, http.StatusBadRequest, fieldErrs)
	}

	user, err := h.auth.Register(ctx, f.Username, f.Email, f.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			// lost an insert race despite the pre-check
			fieldErrs := forms.Errors{}
			fieldErrs.AddAll(registerFormatError, allFields...)
			return apiErrors(c, http.StatusBadRequest, fieldErrs)
		}
		return err
	}

	if err := h.bindSession(c, user.ID); err != nil {
		return err
	}
	metrics.RegistrationsTotal.Inc()
	return c.Redirect(http.StatusSeeOther, indexDestination)
}

// Login verifies credentials and binds the session. User-absent and
// hash-mismatch failures are indistinguishable in the response.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      303
// @Failure      400  {object}  Envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var f forms.Login
	if err := c.Bind(&f); err != nil {
		return apiErrors(c, http.StatusBadRequest, "invalid payload")
	}
	ctx := c.Request().Context()

	if errs := forms.BackEnd.ValidateLogin(f); !errs.Empty() {
		fieldErrs := forms.Errors{}
		fieldErrs.AddAll(loginFormatError, "username", "password")
		return apiErrors(c, http.StatusBadRequest, fieldErrs)
	}

	user, err := h.auth.Login(ctx, f.Username, f.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			fieldErrs := forms.Errors{}
			fieldErrs.AddAll(domain.ErrInvalidCredentials.Error(), "username", "password")
			return apiErrors(c, http.StatusBadRequest, fieldErrs)
		}
		return err
	}

	if err := h.bindSession(c, user.ID); err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, indexDestination)
}

// Logout unconditionally clears the session association.
//
// @Summary      Logout
// @Tags         auth
// @Success      303
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.SessionToken(c); token != "" {
		_ = h.identity.Unbind(c.Request().Context(), token)
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, loginDestination)
}

func (h *AuthHandler) bindSession(c echo.Context, userID string) error {
	token := h.identity.NewToken()
	if err := h.identity.Bind(c.Request().Context(), token, userID); err != nil {
		return err
	}
	setSessionCookie(c, token)
	return nil
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
