package service

import (
	"context"
	"fmt"
	"time"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

type NoteCategoryService struct {
	links      ports.NoteCategoryRepository
	notes      ports.NoteRepository
	categories ports.CategoryRepository
}

func NewNoteCategoryService(links ports.NoteCategoryRepository, notes ports.NoteRepository, categories ports.CategoryRepository) *NoteCategoryService {
	return &NoteCategoryService{links: links, notes: notes, categories: categories}
}

func (s *NoteCategoryService) Link(ctx context.Context, actorID, noteID, categoryID string) (*domain.NoteCategory, error) {
	if err := s.requireMember(ctx, noteID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	link, err := s.links.Create(ctx, &domain.NoteCategory{
		NoteID:     noteID,
		CategoryID: categoryID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("link note category: %w", err)
	}
	return link, nil
}

func (s *NoteCategoryService) Get(ctx context.Context, actorID, noteID, categoryID string) (*domain.NoteCategory, error) {
	if err := s.requireMember(ctx, noteID, actorID); err != nil {
		return nil, err
	}
	return s.links.FindByNoteAndCategory(ctx, noteID, categoryID)
}

func (s *NoteCategoryService) ListByNote(ctx context.Context, actorID, noteID string) ([]*domain.NoteCategory, error) {
	if err := s.requireMember(ctx, noteID, actorID); err != nil {
		return nil, err
	}
	return s.links.ListByNote(ctx, noteID)
}

func (s *NoteCategoryService) ListByCategory(ctx context.Context, actorID, categoryID string) ([]*domain.NoteCategory, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	links, err := s.links.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list note categories: %w", err)
	}
	mine, err := s.notes.ListByMember(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list note categories: %w", err)
	}
	visible := make(map[string]struct{}, len(mine))
	for _, n := range mine {
		visible[n.ID] = struct{}{}
	}

	out := make([]*domain.NoteCategory, 0, len(links))
	for _, l := range links {
		if _, ok := visible[l.NoteID]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *NoteCategoryService) Unlink(ctx context.Context, actorID, id string) error {
	link, err := s.links.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, link.NoteID, actorID); err != nil {
		return err
	}
	return s.links.Delete(ctx, id)
}

func (s *NoteCategoryService) requireMember(ctx context.Context, noteID, actorID string) error {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if !note.HasMember(actorID) {
		return domain.ErrForbidden
	}
	return nil
}
