package ports

import (
	"context"

	"github.com/drowwn/weNote/internal/core/domain"
)

// UserUpdate carries the editable profile fields. Empty fields are left
// unchanged.
type UserUpdate struct {
	Username string
	Email    string
}

// NoteMembership is what account deletion needs from the note service.
type NoteMembership interface {
	ListNotes(ctx context.Context, userID string) ([]*domain.Note, error)
	RevokeAccess(ctx context.Context, noteID, userID string) (domain.RevokeOutcome, *domain.Note, error)
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update edits the caller's profile. actorID must equal id.
	Update(ctx context.Context, actorID, id string, upd UserUpdate) (*domain.User, error)
	// Delete removes the account and the user's access to every note.
	// actorID must equal id.
	Delete(ctx context.Context, actorID, id string) error
}
