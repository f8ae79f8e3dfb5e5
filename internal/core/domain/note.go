package domain

import (
	"errors"
	"slices"
	"time"
)

var ErrNoteNotFound = errors.New("note not found")
var ErrAlreadyMember = errors.New("user already has access to this note")
var ErrForbidden = errors.New("access forbidden")
var ErrRevokeConflict = errors.New("note access changed concurrently, retry")

// Note is the core aggregate root. UserIDs is the access control list: the set
// of users allowed to view and edit the note. A stored note always has at
// least one entry.
type Note struct {
	ID        string    `json:"id" bson:"-"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Category  string    `json:"category" bson:"category"`
	UserIDs   []string  `json:"user_ids" bson:"user_ids"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	EditedAt  time.Time `json:"edited_at" bson:"edited_at"`
}

// HasMember reports whether userID is on the note's access list.
func (n *Note) HasMember(userID string) bool {
	return slices.Contains(n.UserIDs, userID)
}

// RevokeOutcome tells the caller of a revoke what happened to the note.
type RevokeOutcome int

const (
	// RevokeUpdated means the user was removed and other members remain.
	RevokeUpdated RevokeOutcome = iota + 1
	// RevokeDeleted means the user was the last member and the note is gone.
	RevokeDeleted
)

func (o RevokeOutcome) String() string {
	switch o {
	case RevokeUpdated:
		return "updated"
	case RevokeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
