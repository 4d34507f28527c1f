package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "storefront_session"

const (
	ctxUserKey  = "current_user"
	ctxTokenKey = "session_token"
)

// Session resolves the caller's identity once per request and stores it in
// the echo context. Identity proof is the session cookie, or a bearer JWT
// for programmatic API clients. Resolution failures degrade to anonymous;
// this middleware never blocks a request itself.
func Session(resolver ports.IdentityResolver, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				c.Set(ctxTokenKey, cookie.Value)
				user, _ := resolver.Resolve(ctx, cookie.Value)
				c.Set(ctxUserKey, user)
				return next(c)
			}

			if userID, ok := bearerUserID(c, jwtSecret); ok {
				user, _ := resolver.ResolveID(ctx, userID)
				c.Set(ctxUserKey, user)
			}

			return next(c)
		}
	}
}

// bearerUserID extracts the user id claim from a valid bearer token.
func bearerUserID(c echo.Context, jwtSecret string) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	userID, _ := claims["user_id"].(string)
	return userID, userID != ""
}

// CurrentUser returns the identity resolved by Session, nil for anonymous.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(ctxUserKey).(*domain.User)
	return user
}

// SessionToken returns the session token the request arrived with, if any.
func SessionToken(c echo.Context) string {
	token, _ := c.Get(ctxTokenKey).(string)
	return token
}
