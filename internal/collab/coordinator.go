package collab

import (
	"fmt"
	"slices"
)

// session is the per-connection state. An empty room means Connected,NoRoom.
type session struct {
	room string
}

// Coordinator drives the per-session state machine
//
//	Disconnected -> Connected,NoRoom -> Connected,InRoom(note)
//
// and keeps the RoomDirectory and SessionRegistry consistent with it. Every
// transition returns the messages to deliver; publication always reflects the
// directory after the triggering change.
type Coordinator struct {
	registry *SessionRegistry
	rooms    *RoomDirectory
	sessions map[string]*session
	// occupants indexes the connections in each room, in join order, for
	// fan-out. The directory tracks usernames, which is not enough to address
	// deliveries.
	occupants map[string][]string
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		registry:  NewSessionRegistry(),
		rooms:     NewRoomDirectory(),
		sessions:  make(map[string]*session),
		occupants: make(map[string][]string),
	}
}

// Handle dispatches an event to its transition.
func (c *Coordinator) Handle(ev Event) ([]Delivery, error) {
	switch ev.Kind {
	case KindConnect:
		c.Connect(ev.ConnID)
		return nil, nil
	case KindOpenNote:
		return c.OpenNote(ev.ConnID, ev.NoteID, ev.Username)
	case KindContentChange:
		if ev.Note == nil {
			return nil, ErrInvalidPayload
		}
		return c.Relay(ev.ConnID, *ev.Note)
	case KindDisconnect, KindLogout:
		return c.Disconnect(ev.ConnID), nil
	case KindPrune:
		c.rooms.Prune()
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
}

// Connect moves a connection to Connected,NoRoom. Connecting twice is a no-op.
func (c *Coordinator) Connect(connID string) {
	if _, ok := c.sessions[connID]; ok {
		return
	}
	c.sessions[connID] = &session{}
}

// OpenNote moves the connection into noteID's room, leaving its previous room
// first. Re-opening the note the connection is already in does nothing.
func (c *Coordinator) OpenNote(connID, noteID, username string) ([]Delivery, error) {
	if noteID == "" {
		return nil, ErrMissingNoteID
	}
	if _, bound := c.registry.Lookup(connID); !bound && username == "" {
		return nil, ErrMissingUser
	}

	c.Connect(connID)
	s := c.sessions[connID]
	c.registry.Bind(connID, username)
	name, _ := c.registry.Lookup(connID)

	if s.room == noteID {
		return nil, nil
	}

	var out []Delivery
	if s.room != "" {
		out = c.leave(connID, s, name)
	}

	c.rooms.Join(noteID, name)
	c.occupants[noteID] = append(c.occupants[noteID], connID)
	s.room = noteID

	return append(out, c.publish(noteID)...), nil
}

// Disconnect removes the connection from its room, republishes the room's
// membership to whoever remains, and forgets the connection. Unknown
// connections are ignored.
func (c *Coordinator) Disconnect(connID string) []Delivery {
	s, ok := c.sessions[connID]
	if !ok {
		c.registry.Unbind(connID)
		return nil
	}

	var out []Delivery
	if s.room != "" {
		name, _ := c.registry.Lookup(connID)
		out = c.leave(connID, s, name)
	}
	c.registry.Unbind(connID)
	delete(c.sessions, connID)
	return out
}

// Relay forwards snap to every other connection in the note's room. The
// sender has to be in that room itself.
func (c *Coordinator) Relay(connID string, snap NoteSnapshot) ([]Delivery, error) {
	s, ok := c.sessions[connID]
	if !ok || s.room == "" || s.room != snap.ID {
		return nil, ErrNotInRoom
	}

	msg := ContentChange{Type: TypeContentChange, Note: snap}
	out := make([]Delivery, 0, len(c.occupants[snap.ID]))
	for _, id := range c.occupants[snap.ID] {
		if id == connID {
			continue
		}
		out = append(out, Delivery{To: id, Msg: msg})
	}
	return out, nil
}

// Prune drops empty room entries from the directory.
func (c *Coordinator) Prune() int {
	return c.rooms.Prune()
}

// Members returns the usernames in noteID's room.
func (c *Coordinator) Members(noteID string) ([]string, bool) {
	return c.rooms.MembersOf(noteID)
}

// RoomOf returns the room the connection is in, if any.
func (c *Coordinator) RoomOf(connID string) (string, bool) {
	s, ok := c.sessions[connID]
	if !ok || s.room == "" {
		return "", false
	}
	return s.room, true
}

// Username resolves a connection through the session registry.
func (c *Coordinator) Username(connID string) (string, bool) {
	return c.registry.Lookup(connID)
}

// Sessions counts connected sessions.
func (c *Coordinator) Sessions() int {
	return len(c.sessions)
}

// Rooms counts room entries, including empty ones not yet pruned.
func (c *Coordinator) Rooms() int {
	return c.rooms.Len()
}

func (c *Coordinator) leave(connID string, s *session, username string) []Delivery {
	room := s.room
	s.room = ""
	c.rooms.Leave(room, username)

	remaining := slices.DeleteFunc(c.occupants[room], func(id string) bool { return id == connID })
	if len(remaining) == 0 {
		delete(c.occupants, room)
		return nil
	}
	c.occupants[room] = remaining
	return c.publish(room)
}

// publish builds one presence snapshot for every connection in the room.
func (c *Coordinator) publish(noteID string) []Delivery {
	members, _ := c.rooms.MembersOf(noteID)
	if members == nil {
		members = []string{}
	}
	conns := c.occupants[noteID]
	out := make([]Delivery, 0, len(conns))
	for _, id := range conns {
		out = append(out, Delivery{
			To:  id,
			Msg: PresenceUpdate{Type: TypePresenceUpdate, NoteID: noteID, Usernames: members},
		})
	}
	return out
}
