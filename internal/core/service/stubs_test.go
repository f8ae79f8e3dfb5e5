package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[c.ID] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Email != "" {
		for other, o := range r.users {
			if other != id && o.Email == upd.Email {
				return nil, domain.ErrUserExists
			}
		}
		u.Email = upd.Email
	}
	if upd.Username != "" {
		u.Username = upd.Username
	}
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubNoteRepo struct {
	notes   map[string]*domain.Note
	nextID  int
	deleted []string
	// deleteErr, if set, fails every DeleteIfSoleMember call.
	deleteErr error
	// beforeRemove, if set, runs before RemoveMember checks the ACL.
	beforeRemove func(n *domain.Note)
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{notes: make(map[string]*domain.Note)}
}

func cloneNote(n *domain.Note) *domain.Note {
	c := *n
	c.UserIDs = slices.Clone(n.UserIDs)
	return &c
}

func (r *stubNoteRepo) seed(id string, members ...string) {
	r.notes[id] = &domain.Note{ID: id, Title: "t", UserIDs: members, CreatedAt: time.Now()}
}

func (r *stubNoteRepo) Create(_ context.Context, n *domain.Note) error {
	r.nextID++
	n.ID = fmt.Sprintf("n%d", r.nextID)
	r.notes[n.ID] = cloneNote(n)
	return nil
}

func (r *stubNoteRepo) FindByID(_ context.Context, id string) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	return cloneNote(n), nil
}

func (r *stubNoteRepo) ListByMember(_ context.Context, userID string) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, n := range r.notes {
		if n.HasMember(userID) {
			out = append(out, cloneNote(n))
		}
	}
	return out, nil
}

func (r *stubNoteRepo) Update(_ context.Context, id string, upd ports.NoteUpdate) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	n.Title, n.Content, n.Category = upd.Title, upd.Content, upd.Category
	n.EditedAt = time.Now()
	return cloneNote(n), nil
}

func (r *stubNoteRepo) AddMember(_ context.Context, id, userID string) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	if n.HasMember(userID) {
		return nil, domain.ErrAlreadyMember
	}
	n.UserIDs = append(n.UserIDs, userID)
	return cloneNote(n), nil
}

func (r *stubNoteRepo) RemoveMember(_ context.Context, id, userID string) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	if r.beforeRemove != nil {
		r.beforeRemove(n)
	}
	if !n.HasMember(userID) || len(n.UserIDs) < 2 {
		return nil, domain.ErrNoteNotFound
	}
	n.UserIDs = slices.DeleteFunc(n.UserIDs, func(u string) bool { return u == userID })
	return cloneNote(n), nil
}

func (r *stubNoteRepo) DeleteIfSoleMember(_ context.Context, id, userID string) (*domain.Note, error) {
	if r.deleteErr != nil {
		return nil, r.deleteErr
	}
	n, ok := r.notes[id]
	if !ok || !slices.Equal(n.UserIDs, []string{userID}) {
		return nil, nil
	}
	delete(r.notes, id)
	r.deleted = append(r.deleted, id)
	return cloneNote(n), nil
}

// emptyACL lists stored notes whose ACL is empty.
func (r *stubNoteRepo) emptyACL() []string {
	var out []string
	for id, n := range r.notes {
		if len(n.UserIDs) == 0 {
			out = append(out, id)
		}
	}
	return out
}

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[id] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[id]
	return ok, nil
}
