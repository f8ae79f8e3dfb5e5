package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/rs/zerolog"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

var discardLogger = zerolog.Nop()

func newNoteSvc() (*NoteService, *stubNoteRepo, *stubUserRepo) {
	notes := newStubNoteRepo()
	users := newStubUserRepo()
	users.users["A"] = &domain.User{ID: "A", Username: "alice"}
	users.users["B"] = &domain.User{ID: "B", Username: "bob"}
	users.users["C"] = &domain.User{ID: "C", Username: "carol"}
	return NewNoteService(notes, users, discardLogger), notes, users
}

func TestNoteService_CreateNote_OwnerIsOnlyMember(t *testing.T) {
	svc, repo, _ := newNoteSvc()

	note, err := svc.CreateNote(context.Background(), ports.CreateNoteInput{OwnerID: "A", Title: "groceries"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(note.UserIDs, []string{"A"}) {
		t.Fatalf("expected ACL {A}, got %v", note.UserIDs)
	}
	if _, ok := repo.notes[note.ID]; !ok {
		t.Fatalf("note not persisted")
	}
}

// Owner A invites B, B leaves, A leaves: the note survives the first revoke
// and is deleted by the second.
func TestNoteService_ShareThenRevokeLifecycle(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	ctx := context.Background()
	repo.seed("N", "A")

	note, err := svc.GrantAccess(ctx, "N", "A", "B")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !slices.Equal(note.UserIDs, []string{"A", "B"}) {
		t.Fatalf("expected ACL {A,B}, got %v", note.UserIDs)
	}

	outcome, note, err := svc.RevokeAccess(ctx, "N", "B")
	if err != nil {
		t.Fatalf("revoke B: %v", err)
	}
	if outcome != domain.RevokeUpdated {
		t.Fatalf("expected RevokeUpdated, got %v", outcome)
	}
	if !slices.Equal(note.UserIDs, []string{"A"}) {
		t.Fatalf("expected ACL {A}, got %v", note.UserIDs)
	}
	if _, ok := repo.notes["N"]; !ok {
		t.Fatalf("note should persist while A remains")
	}

	outcome, _, err = svc.RevokeAccess(ctx, "N", "A")
	if err != nil {
		t.Fatalf("revoke A: %v", err)
	}
	if outcome != domain.RevokeDeleted {
		t.Fatalf("expected RevokeDeleted, got %v", outcome)
	}
	if _, ok := repo.notes["N"]; ok {
		t.Fatalf("note should be deleted once the ACL is empty")
	}
}

func TestNoteService_GrantAccess_AlreadyMember(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A", "B")

	_, err := svc.GrantAccess(context.Background(), "N", "A", "B")
	if !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
	if !slices.Equal(repo.notes["N"].UserIDs, []string{"A", "B"}) {
		t.Fatalf("ACL must be unchanged, got %v", repo.notes["N"].UserIDs)
	}
}

func TestNoteService_GrantAccess_ActorNotMember(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A")

	if _, err := svc.GrantAccess(context.Background(), "N", "C", "B"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestNoteService_GrantAccess_UnknownUser(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A")

	if _, err := svc.GrantAccess(context.Background(), "N", "A", "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNoteService_GrantAccess_NoteNotFound(t *testing.T) {
	svc, _, _ := newNoteSvc()

	if _, err := svc.GrantAccess(context.Background(), "missing", "A", "B"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNoteService_RevokeAccess_NotMember(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A")

	if _, _, err := svc.RevokeAccess(context.Background(), "N", "B"); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
	if len(repo.notes["N"].UserIDs) != 1 {
		t.Fatalf("ACL must be unchanged")
	}
}

func TestNoteService_RevokeAccess_DeleteFailureKeepsACL(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A")
	repo.deleteErr = errors.New("connection reset")

	if _, _, err := svc.RevokeAccess(context.Background(), "N", "A"); err == nil {
		t.Fatalf("expected the delete error to surface")
	}
	if empty := repo.emptyACL(); len(empty) != 0 {
		t.Fatalf("notes left with an empty ACL: %v", empty)
	}
	if !slices.Equal(repo.notes["N"].UserIDs, []string{"A"}) {
		t.Fatalf("expected ACL {A}, got %v", repo.notes["N"].UserIDs)
	}
}

func TestNoteService_RevokeAccess_OthersLeaveMidRevoke(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A", "B")
	// B leaves after A's sole-member delete missed but before A's pull.
	repo.beforeRemove = func(n *domain.Note) {
		n.UserIDs = slices.DeleteFunc(n.UserIDs, func(u string) bool { return u == "B" })
		repo.beforeRemove = nil
	}

	outcome, _, err := svc.RevokeAccess(context.Background(), "N", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != domain.RevokeDeleted {
		t.Fatalf("expected RevokeDeleted, got %v", outcome)
	}
	if _, ok := repo.notes["N"]; ok {
		t.Fatalf("note should be deleted")
	}
	if empty := repo.emptyACL(); len(empty) != 0 {
		t.Fatalf("notes left with an empty ACL: %v", empty)
	}
}

func TestNoteService_RevokeAccess_GrantBeforeRevokeKeepsNote(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A", "B")

	outcome, note, err := svc.RevokeAccess(context.Background(), "N", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != domain.RevokeUpdated {
		t.Fatalf("expected RevokeUpdated, got %v", outcome)
	}
	if !slices.Equal(note.UserIDs, []string{"B"}) {
		t.Fatalf("expected ACL {B}, got %v", note.UserIDs)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("note must not be deleted while B remains")
	}
}

func TestNoteService_ListMembers(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "B", "A", "gone")

	members, err := svc.ListMembers(context.Background(), "N", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.UserSummary{{ID: "B", Username: "bob"}, {ID: "A", Username: "alice"}}
	if !slices.Equal(members, want) {
		t.Fatalf("expected %v, got %v", want, members)
	}

	if _, err := svc.ListMembers(context.Background(), "N", "C"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}
}

func TestNoteService_UpdateNote_MemberOnly(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A")

	if _, err := svc.UpdateNote(context.Background(), "N", "B", ports.NoteUpdate{Title: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	note, err := svc.UpdateNote(context.Background(), "N", "A", ports.NoteUpdate{Title: "x", Content: "y", Category: "z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Title != "x" || note.Content != "y" || note.Category != "z" {
		t.Fatalf("unexpected note: %+v", note)
	}
}

func TestNoteService_CanAccess(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N", "A")

	cases := []struct {
		note, user string
		want       bool
	}{
		{"N", "A", true},
		{"N", "B", false},
		{"missing", "A", false},
	}
	for _, tc := range cases {
		got, err := svc.CanAccess(context.Background(), tc.note, tc.user)
		if err != nil {
			t.Fatalf("CanAccess(%s,%s): %v", tc.note, tc.user, err)
		}
		if got != tc.want {
			t.Errorf("CanAccess(%s,%s) = %v, want %v", tc.note, tc.user, got, tc.want)
		}
	}
}

func TestNoteService_ListNotes(t *testing.T) {
	svc, repo, _ := newNoteSvc()
	repo.seed("N1", "A")
	repo.seed("N2", "A", "B")
	repo.seed("N3", "C")

	notes, err := svc.ListNotes(context.Background(), "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
}
