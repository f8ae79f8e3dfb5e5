package ws

import (
	"encoding/json"
	"fmt"

	"github.com/drowwn/weNote/internal/collab"
)

const typeLogout = "logout"

// inboundFrame is the envelope of every client frame. Which fields are
// meaningful depends on Type.
type inboundFrame struct {
	Type     string          `json:"type"`
	NoteID   string          `json:"noteId"`
	Username string          `json:"username"`
	Note     json.RawMessage `json:"note"`
}

// decodeFrame turns a text frame into an event for connID. The username is
// the authenticated identity of the connection; whatever the client claims
// in the frame is ignored.
func decodeFrame(connID, username string, raw []byte) (collab.Event, error) {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return collab.Event{}, fmt.Errorf("%w: %v", collab.ErrInvalidPayload, err)
	}

	switch f.Type {
	case string(collab.KindOpenNote):
		return collab.Event{
			Kind:     collab.KindOpenNote,
			ConnID:   connID,
			NoteID:   f.NoteID,
			Username: username,
		}, nil
	case string(collab.KindContentChange):
		if len(f.Note) == 0 {
			return collab.Event{}, fmt.Errorf("%w: missing note", collab.ErrInvalidPayload)
		}
		snap, err := collab.DecodeNoteSnapshot(f.Note)
		if err != nil {
			return collab.Event{}, err
		}
		return collab.Event{Kind: collab.KindContentChange, ConnID: connID, Note: &snap}, nil
	case typeLogout:
		return collab.Event{Kind: collab.KindLogout, ConnID: connID}, nil
	default:
		return collab.Event{}, fmt.Errorf("%w: %q", collab.ErrUnknownEvent, f.Type)
	}
}
