package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

// Context keys set by Auth.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxClaims   = "claims"
)

// AccessTokenCookie is the cookie login sets for browser clients.
const AccessTokenCookie = "access_token"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*ports.TokenClaims, error)
}

// Auth validates the session token and injects its claims into context. The
// token is taken from the Authorization header, then the access_token cookie,
// then a token query parameter (browsers cannot set headers on a WebSocket
// handshake).
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := tokenFrom(c)
			if err != nil {
				return err
			}

			claims, err := verifier.Verify(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, domain.ErrTokenRevoked) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxClaims, claims)

			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	if t := c.QueryParam("token"); t != "" {
		return t, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
}

// SelfOnly allows the request only when the path parameter names the
// authenticated user.
func SelfOnly(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			if userID == "" || c.Param(param) != userID {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
