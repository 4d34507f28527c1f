package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minishop/storefront/internal/core/domain"
)

func renderError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/goods", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"goods not found", domain.ErrGoodsNotFound, http.StatusNotFound, "goods not found"},
		{"seller not found", domain.ErrSellerNotFound, http.StatusNotFound, "seller not found"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()},
		{"username taken", domain.ErrUsernameTaken, http.StatusConflict, domain.ErrUsernameTaken.Error()},
		{"wrong current email", domain.ErrWrongCurrentEmail, http.StatusPreconditionFailed, domain.ErrWrongCurrentEmail.Error()},
		{"password mismatch", domain.ErrPasswordMismatch, http.StatusPreconditionFailed, domain.ErrPasswordMismatch.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := renderError(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}

			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["errors"] != tc.msg {
				t.Fatalf("expected %q, got %+v", tc.msg, resp)
			}
			if resp["results"] != nil {
				t.Fatalf("results not null: %+v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	rec := renderError(t, echo.NewHTTPError(http.StatusForbidden, "no access for unauthorized"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["errors"] != "no access for unauthorized" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	rec := renderError(t, errors.New("mongo: connection reset"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	// the real cause stays in the log
	if resp["errors"] != "internal server error" {
		t.Fatalf("internal detail leaked: %+v", resp)
	}
}
