package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/drowwn/weNote/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

var domainStatus = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrNoteNotFound, http.StatusNotFound, "note not found"},
	{domain.ErrCategoryNotFound, http.StatusNotFound, "category not found"},
	{domain.ErrCategoryExists, http.StatusConflict, "category already exists"},
	{domain.ErrNoteCategoryNotFound, http.StatusNotFound, "note category link not found"},
	{domain.ErrNoteCategoryExists, http.StatusConflict, "note already linked to category"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrAlreadyMember, http.StatusBadRequest, "user already has access to this note"},
	{domain.ErrRevokeConflict, http.StatusConflict, "note access changed concurrently, retry"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrTokenRevoked, http.StatusUnauthorized, "token revoked"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
}

// DomainHTTPError maps a known domain error to its HTTP form.
func DomainHTTPError(err error) (*echo.HTTPError, bool) {
	for _, d := range domainStatus {
		if errors.Is(err, d.err) {
			return echo.NewHTTPError(d.code, d.msg), true
		}
	}
	return nil, false
}

// fail converts err for Echo. Unknown errors pass through untouched so the
// central error handler logs them.
func fail(err error) error {
	if he, ok := DomainHTTPError(err); ok {
		return he
	}
	return err
}
