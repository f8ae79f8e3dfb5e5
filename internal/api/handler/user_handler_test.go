package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

type stubUserService struct {
	users map[string]*domain.User
}

func (s *stubUserService) Get(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) Update(_ context.Context, actorID, id string, upd ports.UserUpdate) (*domain.User, error) {
	if actorID != id {
		return nil, domain.ErrForbidden
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for other, o := range s.users {
		if other != id && upd.Email != "" && o.Email == upd.Email {
			return nil, domain.ErrUserExists
		}
	}
	if upd.Username != "" {
		u.Username = upd.Username
	}
	if upd.Email != "" {
		u.Email = upd.Email
	}
	return u, nil
}

func (s *stubUserService) Delete(_ context.Context, actorID, id string) error {
	if actorID != id {
		return domain.ErrForbidden
	}
	delete(s.users, id)
	return nil
}

func newUserStub() *stubUserService {
	return &stubUserService{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice", Email: "alice@example.com"},
		"u2": {ID: "u2", Username: "bob", Email: "bob@example.com"},
	}}
}

func TestUserHandler_MeIncludesEmail(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(newUserStub())

	c, rec := newContext(e, http.MethodGet, "/users/me", nil, "u1")
	serve(t, e, h.Me, c)

	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Fatalf("expected own email in body, got %s", rec.Body.String())
	}
}

func TestUserHandler_GetHidesEmail(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(newUserStub())

	c, rec := newContext(e, http.MethodGet, "/users/u2", nil, "u1")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	serve(t, e, h.Get, c)

	expectStatus(t, rec, http.StatusOK)
	if strings.Contains(rec.Body.String(), "bob@example.com") {
		t.Fatalf("email leaked in public profile: %s", rec.Body.String())
	}
}

func TestUserHandler_GetByEmail(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(newUserStub())

	c, rec := newContext(e, http.MethodGet, "/users/email/ghost@example.com", nil, "u1")
	c.SetParamNames("email")
	c.SetParamValues("ghost@example.com")
	serve(t, e, h.GetByEmail, c)

	expectStatus(t, rec, http.StatusNotFound)
}

func TestUserHandler_Delete(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"own account", "u1", http.StatusNoContent},
		{"someone else", "u2", http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			h := NewUserHandler(newUserStub())

			c, rec := newContext(e, http.MethodDelete, "/users/"+tc.target, nil, "u1")
			c.SetParamNames("id")
			c.SetParamValues(tc.target)
			serve(t, e, h.Delete, c)

			expectStatus(t, rec, tc.want)
		})
	}
}

func putUser(t *testing.T, stub *stubUserService, actor, id, body string) int {
	t.Helper()
	e := newEcho()
	h := NewUserHandler(stub)
	c, rec := newContext(e, http.MethodPut, "/users/"+id, strings.NewReader(body), actor)
	c.SetParamNames("id")
	c.SetParamValues(id)
	serve(t, e, h.Update, c)
	return rec.Code
}

func TestUserHandler_Update(t *testing.T) {
	stub := newUserStub()

	if code := putUser(t, stub, "u1", "u1", `{"username":"ally"}`); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if stub.users["u1"].Username != "ally" {
		t.Fatalf("username not updated: %+v", stub.users["u1"])
	}
}

func TestUserHandler_UpdateErrors(t *testing.T) {
	tests := []struct {
		name  string
		actor string
		body  string
		want  int
	}{
		{"other user", "u2", `{"username":"mallory"}`, http.StatusForbidden},
		{"bad email", "u1", `{"email":"not-an-email"}`, http.StatusBadRequest},
		{"short username", "u1", `{"username":"a"}`, http.StatusBadRequest},
		{"taken email", "u1", `{"email":"bob@example.com"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := putUser(t, newUserStub(), tt.actor, "u1", tt.body); code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, code)
			}
		})
	}
}
