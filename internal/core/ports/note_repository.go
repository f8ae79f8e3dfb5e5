package ports

import (
	"context"

	"github.com/drowwn/weNote/internal/core/domain"
)

// NoteUpdate carries the editable fields of a note.
type NoteUpdate struct {
	Title    string
	Content  string
	Category string
}

// NoteRepository defines persistence operations for notes and their ACL.
type NoteRepository interface {
	Create(ctx context.Context, n *domain.Note) error
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	// ListByMember returns every note whose ACL contains userID.
	ListByMember(ctx context.Context, userID string) ([]*domain.Note, error)
	Update(ctx context.Context, id string, upd NoteUpdate) (*domain.Note, error)

	// AddMember appends userID to the ACL. It returns domain.ErrAlreadyMember
	// when the user is already present and domain.ErrNoteNotFound when the note
	// does not exist.
	AddMember(ctx context.Context, id, userID string) (*domain.Note, error)
	// RemoveMember pulls userID from the ACL and returns the note as it is after
	// the removal. It never empties the ACL: domain.ErrNoteNotFound is returned
	// when the note does not exist, userID is not a member, or userID is the
	// only member.
	RemoveMember(ctx context.Context, id, userID string) (*domain.Note, error)
	// DeleteIfSoleMember deletes the note in one write when its ACL is exactly
	// {userID} and returns the deleted note. It returns nil, nil when the ACL
	// is anything else.
	DeleteIfSoleMember(ctx context.Context, id, userID string) (*domain.Note, error)
}
