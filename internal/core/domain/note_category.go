package domain

import (
	"errors"
	"time"
)

var (
	ErrNoteCategoryNotFound = errors.New("note category link not found")
	ErrNoteCategoryExists   = errors.New("note already linked to category")
)

// NoteCategory links a note to a category. A note may carry several
// categories and each pair is linked at most once.
type NoteCategory struct {
	ID         string    `json:"id"`
	NoteID     string    `json:"note_id"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}
