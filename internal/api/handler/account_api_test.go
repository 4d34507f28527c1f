package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/core/domain"
)

func normalUser() *domain.User {
	return &domain.User{ID: "u1", Username: "abc", Email: "a@b.com", Role: domain.RoleNormal}
}

func apiRequest(t *testing.T, path string, form url.Values, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := postForm(t, path, form)
	if user != nil {
		c.Set("current_user", user)
	}
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAccountAPI_Email_UnknownMethod(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{
		changeEmailFn: func(context.Context, string, string, string) error {
			t.Fatalf("service called for an unknown method")
			return nil
		},
	})

	for _, method := range []string{"", "destroy", "create"} {
		form := url.Values{"_ext_method": {method}}
		c, rec := apiRequest(t, "/api/user/email", form, normalUser())
		if err := h.Email(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("method %q: expected 405, got %d", method, rec.Code)
		}
		resp := decodeEnvelope(t, rec)
		if resp["errors"] != "failure to match the appropriate method" {
			t.Fatalf("method %q: unexpected body %+v", method, resp)
		}
	}
}

func TestAccountAPI_Email_Update(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{
		changeEmailFn: func(_ context.Context, userID, currEmail, newEmail string) error {
			if userID != "u1" || currEmail != "a@b.com" || newEmail != "new@b.com" {
				t.Fatalf("unexpected args: %s %s %s", userID, currEmail, newEmail)
			}
			return nil
		},
	})

	form := url.Values{
		"_ext_method": {"update"},
		"curr_email":  {"a@b.com"},
		"new_email":   {"new@b.com"},
	}
	c, rec := apiRequest(t, "/api/user/email", form, normalUser())
	if err := h.Email(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["results"] != "user-email changed successful" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestAccountAPI_Email_BadFormat(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{
		changeEmailFn: func(context.Context, string, string, string) error {
			t.Fatalf("service called despite format error")
			return nil
		},
	})

	form := url.Values{
		"_ext_method": {"update"},
		"curr_email":  {"a@b.com"},
		"new_email":   {"not-an-address"},
	}
	c, rec := apiRequest(t, "/api/user/email", form, normalUser())
	if err := h.Email(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["errors"] != paramsFormatError {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestAccountAPI_Email_WrongCurrent(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{
		changeEmailFn: func(context.Context, string, string, string) error {
			return domain.ErrWrongCurrentEmail
		},
	})

	form := url.Values{
		"_ext_method": {"update"},
		"curr_email":  {"other@b.com"},
		"new_email":   {"new@b.com"},
	}
	c, rec := apiRequest(t, "/api/user/email", form, normalUser())
	if err := h.Email(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["errors"] != "the current user-email is incorrect" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestAccountAPI_Email_Unauthenticated(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{})

	form := url.Values{
		"_ext_method": {"update"},
		"curr_email":  {"a@b.com"},
		"new_email":   {"new@b.com"},
	}
	c, _ := apiRequest(t, "/api/user/email", form, nil)

	err := h.Email(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}

func TestAccountAPI_Password_Update(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{
		changePasswordFn: func(_ context.Context, userID, currDigest, newDigest string) error {
			if userID != "u1" || currDigest != digest("oldpass99") || newDigest != digest("newpass99") {
				t.Fatalf("unexpected args: %s %s %s", userID, currDigest, newDigest)
			}
			return nil
		},
	})

	form := url.Values{
		"_ext_method":        {"update"},
		"curr_password":      {digest("oldpass99")},
		"new_password":       {digest("newpass99")},
		"new_password_again": {digest("newpass99")},
	}
	c, rec := apiRequest(t, "/api/user/password", form, normalUser())
	if err := h.Password(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["results"] != "user-password changed successful" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestAccountAPI_Password_Mismatch(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{
		changePasswordFn: func(context.Context, string, string, string) error {
			t.Fatalf("service called despite mismatch")
			return nil
		},
	})

	form := url.Values{
		"_ext_method":        {"update"},
		"curr_password":      {digest("oldpass99")},
		"new_password":       {digest("newpass99")},
		"new_password_again": {digest("different")},
	}
	c, rec := apiRequest(t, "/api/user/password", form, normalUser())
	if err := h.Password(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["errors"] != domain.ErrPasswordMismatch.Error() {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestAccountAPI_Password_WrongCurrent(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{
		changePasswordFn: func(context.Context, string, string, string) error {
			return domain.ErrWrongCurrentPassword
		},
	})

	form := url.Values{
		"_ext_method":        {"update"},
		"curr_password":      {digest("wrongpass")},
		"new_password":       {digest("newpass99")},
		"new_password_again": {digest("newpass99")},
	}
	c, rec := apiRequest(t, "/api/user/password", form, normalUser())
	if err := h.Password(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", rec.Code)
	}
}

func TestAccountAPI_Token_Pull(t *testing.T) {
	h := NewAccountAPIHandler(&stubAuthService{
		issueFn: func(user *domain.User) (string, error) {
			if user.ID != "u1" {
				t.Fatalf("unexpected user: %+v", user)
			}
			return "bearer-token", nil
		},
	})

	form := url.Values{"_ext_method": {"pull"}}
	c, rec := apiRequest(t, "/api/user/token", form, normalUser())
	if err := h.Token(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	res, _ := resp["results"].(map[string]any)
	if res["token"] != "bearer-token" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestMethodNotSupported(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user/email", nil)
	rec := httptest.NewRecorder()

	if err := MethodNotSupported(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["errors"] != "getting is not supported" {
		t.Fatalf("unexpected body %+v", resp)
	}
}
