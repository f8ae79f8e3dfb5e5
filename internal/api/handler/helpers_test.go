package handler

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/drowwn/weNote/internal/api/middleware"
	"github.com/drowwn/weNote/internal/core/ports"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context, authenticated as userID when non-empty.
func newContext(e *echo.Echo, method, target string, body io.Reader, userID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxClaims, &ports.TokenClaims{UserID: userID, Username: "name-" + userID, TokenID: "jti-" + userID})
	}
	return c, rec
}

// serve runs h and renders any returned error the way Echo would.
func serve(t *testing.T, e *echo.Echo, h echo.HandlerFunc, c echo.Context) {
	t.Helper()
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}

