package ports

import (
	"context"

	"github.com/drowwn/weNote/internal/core/domain"
)

// CreateNoteInput carries the data needed to create a note owned by OwnerID.
type CreateNoteInput struct {
	OwnerID  string
	Title    string
	Content  string
	Category string
}

// NoteService defines the note use cases, including sharing.
type NoteService interface {
	CreateNote(ctx context.Context, in CreateNoteInput) (*domain.Note, error)
	GetNote(ctx context.Context, noteID, actorID string) (*domain.Note, error)
	ListNotes(ctx context.Context, userID string) ([]*domain.Note, error)
	UpdateNote(ctx context.Context, noteID, actorID string, upd NoteUpdate) (*domain.Note, error)

	GrantAccess(ctx context.Context, noteID, actorID, userID string) (*domain.Note, error)
	RevokeAccess(ctx context.Context, noteID, userID string) (domain.RevokeOutcome, *domain.Note, error)
	ListMembers(ctx context.Context, noteID, actorID string) ([]domain.UserSummary, error)
	CanAccess(ctx context.Context, noteID, userID string) (bool, error)
}
