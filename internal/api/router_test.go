package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
	"github.com/drowwn/weNote/internal/infrastructure/http/handlers"
	"github.com/drowwn/weNote/internal/pkg/config"
)

// rejectingAuth fails every token; only Verify is reached in these tests.
type rejectingAuth struct{ ports.AuthService }

func (rejectingAuth) Verify(context.Context, string) (*ports.TokenClaims, error) {
	return nil, errors.New("bad token")
}

func (rejectingAuth) Login(context.Context, string, string, bool) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	return NewRouter(Deps{
		Config: &config.Config{Env: "test", CORSOrigins: []string{"http://localhost:3000"}},
		Log:    zerolog.New(io.Discard),
		Auth:   rejectingAuth{},
		Collab: func(c echo.Context) error { return c.NoContent(http.StatusSwitchingProtocols) },
		Ready: map[string]handlers.Checker{
			"mongodb": func(context.Context) error { return nil },
		},
		Registerer: prometheus.NewRegistry(),
	})
}

func TestRouter(t *testing.T) {
	e := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"liveness", http.MethodGet, "/health", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"swagger ui", http.MethodGet, "/swagger/index.html", http.StatusOK},
		{"notes need a token", http.MethodGet, "/notes", http.StatusUnauthorized},
		{"categories need a token", http.MethodGet, "/categories", http.StatusUnauthorized},
		{"me needs a token", http.MethodGet, "/users/me", http.StatusUnauthorized},
		{"profile update needs a token", http.MethodPut, "/users/u1", http.StatusUnauthorized},
		{"note categories need a token", http.MethodGet, "/notecat/note/n1", http.StatusUnauthorized},
		{"unlink needs a token", http.MethodDelete, "/notecat/l1", http.StatusUnauthorized},
		{"logout needs a token", http.MethodPost, "/auth/logout", http.StatusUnauthorized},
		{"socket needs a token", http.MethodGet, "/ws", http.StatusUnauthorized},
		{"login is public", http.MethodPost, "/auth/login", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("%s %s: got %d, want %d", tt.method, tt.target, rec.Code, tt.want)
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	e := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/notes", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowCredentials); got != "true" {
		t.Errorf("allow-credentials = %q", got)
	}
}
