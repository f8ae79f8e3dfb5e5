package ports

import (
	"context"

	"github.com/drowwn/weNote/internal/core/domain"
)

// NoteCategoryService manages note to category links. Every operation is
// scoped to notes the actor is a member of.
type NoteCategoryService interface {
	Link(ctx context.Context, actorID, noteID, categoryID string) (*domain.NoteCategory, error)
	Get(ctx context.Context, actorID, noteID, categoryID string) (*domain.NoteCategory, error)
	ListByNote(ctx context.Context, actorID, noteID string) ([]*domain.NoteCategory, error)
	// ListByCategory returns only links to notes the actor can see.
	ListByCategory(ctx context.Context, actorID, categoryID string) ([]*domain.NoteCategory, error)
	Unlink(ctx context.Context, actorID, id string) error
}
