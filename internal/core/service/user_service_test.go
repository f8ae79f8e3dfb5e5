package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

func newUserSvc() (*UserService, *stubUserRepo, *stubNoteRepo) {
	users := newStubUserRepo()
	users.users["A"] = &domain.User{ID: "A", Username: "alice", Email: "alice@example.com"}
	users.users["B"] = &domain.User{ID: "B", Username: "bob", Email: "bob@example.com"}
	notes := newStubNoteRepo()
	return NewUserService(users, NewNoteService(notes, users, discardLogger)), users, notes
}

func TestUserService_DeleteSelfOnly(t *testing.T) {
	svc, repo, _ := newUserSvc()

	if err := svc.Delete(context.Background(), "B", "A"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), "A", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.users["A"]; ok {
		t.Fatalf("user should be deleted")
	}
}

func TestUserService_DeleteLeavesNoDanglingMember(t *testing.T) {
	svc, _, notes := newUserSvc()
	notes.seed("solo", "A")
	notes.seed("shared", "A", "B")
	notes.seed("other", "B")

	if err := svc.Delete(context.Background(), "A", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := notes.notes["solo"]; ok {
		t.Fatalf("a note only A could see should be deleted")
	}
	if got := notes.notes["shared"].UserIDs; !slices.Equal(got, []string{"B"}) {
		t.Fatalf("expected shared ACL {B}, got %v", got)
	}
	if got := notes.notes["other"].UserIDs; !slices.Equal(got, []string{"B"}) {
		t.Fatalf("unrelated note changed: %v", got)
	}
}

func TestUserService_DeleteStopsOnRevokeFailure(t *testing.T) {
	svc, users, notes := newUserSvc()
	notes.seed("solo", "A")
	notes.deleteErr = errors.New("connection reset")

	if err := svc.Delete(context.Background(), "A", "A"); err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := users.users["A"]; !ok {
		t.Fatalf("user must survive so the cleanup can be retried")
	}
}

func TestUserService_GetByEmailNormalises(t *testing.T) {
	svc, _, _ := newUserSvc()

	u, err := svc.GetByEmail(context.Background(), "  Alice@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "A" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUserService_Update(t *testing.T) {
	svc, repo, _ := newUserSvc()

	u, err := svc.Update(context.Background(), "A", "A", ports.UserUpdate{Username: " ally ", Email: " Ally@Example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "ally" || u.Email != "ally@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if repo.users["A"].Username != "ally" {
		t.Fatalf("update not stored")
	}
}

func TestUserService_UpdateKeepsEmptyFields(t *testing.T) {
	svc, _, _ := newUserSvc()

	u, err := svc.Update(context.Background(), "A", "A", ports.UserUpdate{Username: "ally"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email should be unchanged, got %q", u.Email)
	}
}

func TestUserService_UpdateErrors(t *testing.T) {
	svc, _, _ := newUserSvc()
	ctx := context.Background()

	if _, err := svc.Update(ctx, "B", "A", ports.UserUpdate{Username: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, "A", "A", ports.UserUpdate{Email: "bob@example.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}
