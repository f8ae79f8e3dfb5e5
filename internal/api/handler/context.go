package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/drowwn/weNote/internal/api/middleware"
	"github.com/drowwn/weNote/internal/core/ports"
)

// ctxUserID extracts the user id injected by the Auth middleware. Its
// absence means the route was mounted without Auth, so fail fast with 401.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

func ctxClaims(c echo.Context) (*ports.TokenClaims, error) {
	claims, _ := c.Get(middleware.CtxClaims).(*ports.TokenClaims)
	if claims == nil || claims.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
