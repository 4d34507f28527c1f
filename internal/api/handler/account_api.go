package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/api/forms"
	"github.com/minishop/storefront/internal/api/metrics"
	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/ports"
)

const paramsFormatError = "parameters format not correct"

// AccountAPIHandler serves the POST-dispatched JSON endpoints mutating the
// authenticated user's account.
type AccountAPIHandler struct {
	auth ports.AuthService
}

func NewAccountAPIHandler(auth ports.AuthService) *AccountAPIHandler {
	return &AccountAPIHandler{auth: auth}
}

// Email is the POST dispatch for /api/user/email.
//
// @Summary      Change the current user's email
// @Tags         account
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        _ext_method  formData  string  true  "must be update"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      405  {object}  Envelope
// @Failure      412  {object}  Envelope
// @Router       /api/user/email [post]
func (h *AccountAPIHandler) Email(c echo.Context) error {
	return apiMethods{update: h.updateEmail}.dispatch(c)
}

func (h *AccountAPIHandler) updateEmail(c echo.Context) error {
	user, err := apiUser(c)
	if err != nil {
		return err
	}

	var f forms.ChangeEmail
	if err := c.Bind(&f); err != nil {
		return apiErrors(c, http.StatusPreconditionFailed, paramsFormatError)
	}
	if errs := forms.BackEnd.ValidateChangeEmail(f); !errs.Empty() {
		return apiErrors(c, http.StatusPreconditionFailed, paramsFormatError)
	}

	if err := h.auth.ChangeEmail(c.Request().Context(), user.ID, f.CurrEmail, f.NewEmail); err != nil {
		if errors.Is(err, domain.ErrWrongCurrentEmail) {
			return apiErrors(c, http.StatusPreconditionFailed, "the current user-email is incorrect")
		}
		return err
	}

	metrics.AccountChangesTotal.WithLabelValues("email").Inc()
	return results(c, http.StatusOK, "user-email changed successful")
}

// Password is the POST dispatch for /api/user/password.
//
// @Summary      Change the current user's password
// @Tags         account
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        _ext_method  formData  string  true  "must be update"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      405  {object}  Envelope
// @Failure      412  {object}  Envelope
// @Router       /api/user/password [post]
func (h *AccountAPIHandler) Password(c echo.Context) error {
	return apiMethods{update: h.updatePassword}.dispatch(c)
}

func (h *AccountAPIHandler) updatePassword(c echo.Context) error {
	user, err := apiUser(c)
	if err != nil {
		return err
	}

	var f forms.ChangePassword
	if err := c.Bind(&f); err != nil {
		return apiErrors(c, http.StatusPreconditionFailed, paramsFormatError)
	}
	if errs := forms.BackEnd.ValidateChangePassword(f); !errs.Empty() {
		return apiErrors(c, http.StatusPreconditionFailed, paramsFormatError)
	}

	if f.NewPassword != f.NewPasswordAgain {
		return apiErrors(c, http.StatusPreconditionFailed, domain.ErrPasswordMismatch.Error())
	}

	if err := h.auth.ChangePassword(c.Request().Context(), user.ID, f.CurrPassword, f.NewPassword); err != nil {
		if errors.Is(err, domain.ErrWrongCurrentPassword) {
			return apiErrors(c, http.StatusPreconditionFailed, "the current user-password is incorrect")
		}
		return err
	}

	metrics.AccountChangesTotal.WithLabelValues("password").Inc()
	return results(c, http.StatusOK, "user-password changed successful")
}

// Token is the POST dispatch for /api/user/token: it issues a bearer token
// for the session-authenticated caller so programmatic clients can reach
// the API without the cookie.
//
// @Summary      Issue an API bearer token
// @Tags         account
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        _ext_method  formData  string  true  "must be pull"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      405  {object}  Envelope
// @Router       /api/user/token [post]
func (h *AccountAPIHandler) Token(c echo.Context) error {
	return apiMethods{pull: h.pullToken}.dispatch(c)
}

func (h *AccountAPIHandler) pullToken(c echo.Context) error {
	user, err := apiUser(c)
	if err != nil {
		return err
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		return err
	}
	return results(c, http.StatusOK, map[string]string{"token": token})
}
