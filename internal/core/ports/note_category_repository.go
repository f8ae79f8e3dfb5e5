package ports

import (
	"context"

	"github.com/drowwn/weNote/internal/core/domain"
)

type NoteCategoryRepository interface {
	// Create stores a link. domain.ErrNoteCategoryExists is returned when the
	// pair is already linked.
	Create(ctx context.Context, link *domain.NoteCategory) (*domain.NoteCategory, error)
	FindByID(ctx context.Context, id string) (*domain.NoteCategory, error)
	FindByNoteAndCategory(ctx context.Context, noteID, categoryID string) (*domain.NoteCategory, error)
	ListByNote(ctx context.Context, noteID string) ([]*domain.NoteCategory, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.NoteCategory, error)
	Delete(ctx context.Context, id string) error
}
