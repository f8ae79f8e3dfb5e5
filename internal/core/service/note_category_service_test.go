package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/drowwn/weNote/internal/core/domain"
)

type stubNoteCategoryRepo struct {
	links  map[string]*domain.NoteCategory
	order  []string
	nextID int
}

func newStubNoteCategoryRepo() *stubNoteCategoryRepo {
	return &stubNoteCategoryRepo{links: make(map[string]*domain.NoteCategory)}
}

func (r *stubNoteCategoryRepo) Create(_ context.Context, link *domain.NoteCategory) (*domain.NoteCategory, error) {
	for _, l := range r.links {
		if l.NoteID == link.NoteID && l.CategoryID == link.CategoryID {
			return nil, domain.ErrNoteCategoryExists
		}
	}
	r.nextID++
	c := *link
	c.ID = fmt.Sprintf("l%d", r.nextID)
	r.links[c.ID] = &c
	r.order = append(r.order, c.ID)
	out := c
	return &out, nil
}

func (r *stubNoteCategoryRepo) FindByID(_ context.Context, id string) (*domain.NoteCategory, error) {
	l, ok := r.links[id]
	if !ok {
		return nil, domain.ErrNoteCategoryNotFound
	}
	out := *l
	return &out, nil
}

func (r *stubNoteCategoryRepo) FindByNoteAndCategory(_ context.Context, noteID, categoryID string) (*domain.NoteCategory, error) {
	for _, l := range r.links {
		if l.NoteID == noteID && l.CategoryID == categoryID {
			out := *l
			return &out, nil
		}
	}
	return nil, domain.ErrNoteCategoryNotFound
}

func (r *stubNoteCategoryRepo) filter(keep func(*domain.NoteCategory) bool) []*domain.NoteCategory {
	var out []*domain.NoteCategory
	for _, id := range r.order {
		if l, ok := r.links[id]; ok && keep(l) {
			c := *l
			out = append(out, &c)
		}
	}
	return out
}

func (r *stubNoteCategoryRepo) ListByNote(_ context.Context, noteID string) ([]*domain.NoteCategory, error) {
	return r.filter(func(l *domain.NoteCategory) bool { return l.NoteID == noteID }), nil
}

func (r *stubNoteCategoryRepo) ListByCategory(_ context.Context, categoryID string) ([]*domain.NoteCategory, error) {
	return r.filter(func(l *domain.NoteCategory) bool { return l.CategoryID == categoryID }), nil
}

func (r *stubNoteCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.links[id]; !ok {
		return domain.ErrNoteCategoryNotFound
	}
	delete(r.links, id)
	return nil
}

// newNoteCategorySvc seeds note N1 {A}, note N2 {B} and categories c1 "Work", c2 "Home".
func newNoteCategorySvc(t *testing.T) (*NoteCategoryService, *stubNoteCategoryRepo) {
	t.Helper()
	links := newStubNoteCategoryRepo()
	notes := newStubNoteRepo()
	notes.seed("N1", "A")
	notes.seed("N2", "B")
	cats := newStubCategoryRepo()
	for _, name := range []string{"Work", "Home"} {
		if _, err := cats.Create(context.Background(), &domain.Category{Name: name}); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	return NewNoteCategoryService(links, notes, cats), links
}

func TestNoteCategoryService_LinkAndGet(t *testing.T) {
	svc, _ := newNoteCategorySvc(t)
	ctx := context.Background()

	link, err := svc.Link(ctx, "A", "N1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.ID == "" || link.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at: %+v", link)
	}

	got, err := svc.Get(ctx, "A", "N1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != link.ID {
		t.Fatalf("expected %s, got %s", link.ID, got.ID)
	}
}

func TestNoteCategoryService_LinkErrors(t *testing.T) {
	svc, _ := newNoteCategorySvc(t)
	ctx := context.Background()
	if _, err := svc.Link(ctx, "A", "N1", "c1"); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	tests := []struct {
		name                  string
		actor, note, category string
		want                  error
	}{
		{"duplicate pair", "A", "N1", "c1", domain.ErrNoteCategoryExists},
		{"not a member", "A", "N2", "c1", domain.ErrForbidden},
		{"unknown note", "A", "missing", "c1", domain.ErrNoteNotFound},
		{"unknown category", "A", "N1", "c9", domain.ErrCategoryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Link(ctx, tt.actor, tt.note, tt.category); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNoteCategoryService_ListByNoteMemberOnly(t *testing.T) {
	svc, _ := newNoteCategorySvc(t)
	ctx := context.Background()
	svc.Link(ctx, "A", "N1", "c1")
	svc.Link(ctx, "A", "N1", "c2")

	links, err := svc.ListByNote(ctx, "A", "N1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 2 || links[0].CategoryID != "c1" || links[1].CategoryID != "c2" {
		t.Fatalf("unexpected links: %+v", links)
	}

	if _, err := svc.ListByNote(ctx, "B", "N1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestNoteCategoryService_ListByCategoryHidesOtherNotes(t *testing.T) {
	svc, _ := newNoteCategorySvc(t)
	ctx := context.Background()
	svc.Link(ctx, "A", "N1", "c1")
	svc.Link(ctx, "B", "N2", "c1")

	links, err := svc.ListByCategory(ctx, "A", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 1 || links[0].NoteID != "N1" {
		t.Fatalf("expected only N1, got %+v", links)
	}

	if _, err := svc.ListByCategory(ctx, "A", "c9"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestNoteCategoryService_Unlink(t *testing.T) {
	svc, repo := newNoteCategorySvc(t)
	ctx := context.Background()
	link, _ := svc.Link(ctx, "A", "N1", "c1")

	if err := svc.Unlink(ctx, "B", link.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Unlink(ctx, "A", link.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.links[link.ID]; ok {
		t.Fatalf("link should be gone")
	}
	if err := svc.Unlink(ctx, "A", link.ID); !errors.Is(err, domain.ErrNoteCategoryNotFound) {
		t.Fatalf("expected ErrNoteCategoryNotFound, got %v", err)
	}
}
