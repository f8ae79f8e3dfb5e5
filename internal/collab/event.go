package collab

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Kind identifies an inbound event.
type Kind string

const (
	KindConnect       Kind = "connect"
	KindOpenNote      Kind = "openNote"
	KindContentChange Kind = "contentChange"
	KindDisconnect    Kind = "disconnect"
	KindLogout        Kind = "logout"
	// KindPrune is raised internally on a timer, never by a client.
	KindPrune Kind = "prune"
)

// Outbound message types.
const (
	TypePresenceUpdate = "presenceUpdate"
	TypeContentChange  = "contentChange"
)

// Protocol errors. Events that produce one are dropped without touching any
// state.
var (
	ErrUnknownEvent   = errors.New("unknown event kind")
	ErrMissingNoteID  = errors.New("missing note id")
	ErrMissingUser    = errors.New("no username bound to connection")
	ErrNotInRoom      = errors.New("connection is not in the note's room")
	ErrInvalidPayload = errors.New("invalid note payload")
)

// Event is a single inbound occurrence for one connection.
type Event struct {
	Kind     Kind
	ConnID   string
	NoteID   string
	Username string
	Note     *NoteSnapshot
}

// NoteSnapshot is the in-progress state of a note as sent by an editor.
type NoteSnapshot struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// noteSnapshotWire distinguishes a missing field from an empty one.
type noteSnapshotWire struct {
	ID       *string `json:"id"       validate:"required,min=1"`
	Title    *string `json:"title"    validate:"required"`
	Content  *string `json:"content"  validate:"required"`
	Category *string `json:"category" validate:"required"`
}

var payloadValidator = validator.New()

// DecodeNoteSnapshot parses a contentChange payload. All four fields must be
// present; title, content and category may be empty strings but the id may not.
func DecodeNoteSnapshot(raw []byte) (NoteSnapshot, error) {
	var w noteSnapshotWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return NoteSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := payloadValidator.Struct(&w); err != nil {
		return NoteSnapshot{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return NoteSnapshot{ID: *w.ID, Title: *w.Title, Content: *w.Content, Category: *w.Category}, nil
}

// Message is an outbound frame.
type Message interface {
	MessageType() string
}

// PresenceUpdate carries the full membership of a room, never a diff.
type PresenceUpdate struct {
	Type      string   `json:"type"`
	NoteID    string   `json:"noteId"`
	Usernames []string `json:"usernames"`
}

func (PresenceUpdate) MessageType() string { return TypePresenceUpdate }

// ContentChange relays an editor's snapshot unchanged.
type ContentChange struct {
	Type string       `json:"type"`
	Note NoteSnapshot `json:"note"`
}

func (ContentChange) MessageType() string { return TypeContentChange }

// Delivery addresses a message to one connection.
type Delivery struct {
	To  string
	Msg Message
}
