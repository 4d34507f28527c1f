package handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/api/middleware"
	"github.com/minishop/storefront/internal/core/domain"
)

func digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

type stubAuthService struct {
	registerFn       func(ctx context.Context, username, email, passwordDigest string) (*domain.User, error)
	checkFn          func(ctx context.Context, username, email string) error
	loginFn          func(ctx context.Context, username, passwordDigest string) (*domain.User, error)
	issueFn          func(user *domain.User) (string, error)
	changeEmailFn    func(ctx context.Context, userID, currEmail, newEmail string) error
	changePasswordFn func(ctx context.Context, userID, currDigest, newDigest string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, email, passwordDigest string) (*domain.User, error) {
	return s.registerFn(ctx, username, email, passwordDigest)
}

func (s *stubAuthService) CheckAvailability(ctx context.Context, username, email string) error {
	if s.checkFn == nil {
		return nil
	}
	return s.checkFn(ctx, username, email)
}

func (s *stubAuthService) Login(ctx context.Context, username, passwordDigest string) (*domain.User, error) {
	return s.loginFn(ctx, username, passwordDigest)
}

func (s *stubAuthService) IssueToken(user *domain.User) (string, error) {
	if s.issueFn == nil {
		return "stub-token", nil
	}
	return s.issueFn(user)
}

func (s *stubAuthService) ChangeEmail(ctx context.Context, userID, currEmail, newEmail string) error {
	return s.changeEmailFn(ctx, userID, currEmail, newEmail)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, currDigest, newDigest string) error {
	return s.changePasswordFn(ctx, userID, currDigest, newDigest)
}

type stubIdentity struct {
	bindings map[string]string
	unbound  []string
}

func newStubIdentity() *stubIdentity {
	return &stubIdentity{bindings: make(map[string]string)}
}

func (s *stubIdentity) Resolve(_ context.Context, token string) (*domain.User, error) {
	return nil, nil
}

func (s *stubIdentity) ResolveID(_ context.Context, userID string) (*domain.User, error) {
	return nil, nil
}

func (s *stubIdentity) Bind(_ context.Context, token, userID string) error {
	s.bindings[token] = userID
	return nil
}

func (s *stubIdentity) Unbind(_ context.Context, token string) error {
	s.unbound = append(s.unbound, token)
	delete(s.bindings, token)
	return nil
}

func (s *stubIdentity) NewToken() string { return "fresh-token" }

func postForm(t *testing.T, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func fieldErrors(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	errs, ok := resp["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected field errors, got %+v", resp)
	}
	return errs
}

func validRegisterForm() url.Values {
	return url.Values{
		"username":       {"abc"},
		"email":          {"a@b.com"},
		"password":       {digest("12345678")},
		"password_again": {digest("12345678")},
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	identity := newStubIdentity()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, username, email, passwordDigest string) (*domain.User, error) {
			if username != "abc" || email != "a@b.com" {
				t.Fatalf("unexpected args: %s %s", username, email)
			}
			return &domain.User{ID: "u1", Username: username, Email: email, Role: domain.RoleNormal}, nil
		},
	}
	h := NewAuthHandler(stub, identity)

	c, rec := postForm(t, "/register", validRegisterForm())
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/goods" {
		t.Fatalf("expected redirect to /goods, got %q", loc)
	}
	if identity.bindings["fresh-token"] != "u1" {
		t.Fatalf("session not bound: %+v", identity.bindings)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, middleware.SessionCookie+"=fresh-token") {
		t.Fatalf("session cookie not set: %q", cookie)
	}
}

func TestAuthHandler_Register_RawPasswordRejected(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatalf("register called despite validation failure")
			return nil, nil
		},
	}, newStubIdentity())

	form := validRegisterForm()
	form.Set("password", "12345678")
	form.Set("password_again", "12345678")

	c, rec := postForm(t, "/register", form)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	errs := fieldErrors(t, rec)
	for _, field := range []string{"username", "email", "password", "password_again"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected format error on %q, got %+v", field, errs)
		}
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		checkFn: func(context.Context, string, string) error {
			return domain.ErrUsernameTaken
		},
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatalf("register called despite taken username")
			return nil, nil
		},
	}, newStubIdentity())

	c, rec := postForm(t, "/register", validRegisterForm())
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	errs := fieldErrors(t, rec)
	if _, ok := errs["username"]; !ok {
		t.Fatalf("expected username error, got %+v", errs)
	}
	if _, ok := errs["email"]; ok {
		t.Fatalf("email error present for a username conflict: %+v", errs)
	}
}

func TestAuthHandler_Register_PasswordMismatch(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatalf("register called despite mismatch")
			return nil, nil
		},
	}, newStubIdentity())

	form := validRegisterForm()
	form.Set("password_again", digest("87654321"))

	c, rec := postForm(t, "/register", form)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	errs := fieldErrors(t, rec)
	if _, ok := errs["password"]; !ok {
		t.Fatalf("expected password error, got %+v", errs)
	}
	if _, ok := errs["password_again"]; !ok {
		t.Fatalf("expected password_again error, got %+v", errs)
	}
}

func TestAuthHandler_Register_InsertRace(t *testing.T) {
	identity := newStubIdentity()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}, identity)

	c, rec := postForm(t, "/register", validRegisterForm())
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	errs := fieldErrors(t, rec)
	if len(errs) != 4 {
		t.Fatalf("expected generic error on all fields, got %+v", errs)
	}
	if len(identity.bindings) != 0 {
		t.Fatalf("session bound despite failed registration")
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	identity := newStubIdentity()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, username, passwordDigest string) (*domain.User, error) {
			if username != "abc" || passwordDigest != digest("12345678") {
				t.Fatalf("unexpected args: %s %s", username, passwordDigest)
			}
			return &domain.User{ID: "u1", Username: username, Role: domain.RoleNormal}, nil
		},
	}, identity)

	c, rec := postForm(t, "/login", url.Values{
		"username": {"abc"},
		"password": {digest("12345678")},
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if identity.bindings["fresh-token"] != "u1" {
		t.Fatalf("session not bound: %+v", identity.bindings)
	}
}

func TestAuthHandler_Login_GenericFailure(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}, newStubIdentity())

	c, rec := postForm(t, "/login", url.Values{
		"username": {"abc"},
		"password": {digest("wrongpass")},
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	// the same generic message lands on both fields
	errs := fieldErrors(t, rec)
	userMsgs, _ := errs["username"].([]any)
	passMsgs, _ := errs["password"].([]any)
	if len(userMsgs) != 1 || len(passMsgs) != 1 || userMsgs[0] != passMsgs[0] {
		t.Fatalf("expected identical generic error on both fields, got %+v", errs)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	identity := newStubIdentity()
	identity.bindings["tok-1"] = "u1"
	h := NewAuthHandler(&stubAuthService{}, identity)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session_token", "tok-1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
	if len(identity.unbound) != 1 || identity.unbound[0] != "tok-1" {
		t.Fatalf("session not unbound: %+v", identity.unbound)
	}
}
