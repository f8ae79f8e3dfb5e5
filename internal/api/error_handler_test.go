package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/drowwn/weNote/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"note not found", domain.ErrNoteNotFound, http.StatusNotFound},
		{"wrapped forbidden", fmt.Errorf("grant access: %w", domain.ErrForbidden), http.StatusForbidden},
		{"already member", domain.ErrAlreadyMember, http.StatusBadRequest},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked token", domain.ErrTokenRevoked, http.StatusUnauthorized},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"revoke conflict", domain.ErrRevokeConflict, http.StatusConflict},
		{"category not found", domain.ErrCategoryNotFound, http.StatusNotFound},
		{"link exists", domain.ErrNoteCategoryExists, http.StatusConflict},
		{"echo error", echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
