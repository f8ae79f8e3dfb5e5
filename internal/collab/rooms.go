package collab

import "slices"

// RoomDirectory maps a note id to the distinct usernames currently viewing it,
// in join order.
//
// Leave keeps a room entry around even once it is empty; Prune sweeps those
// entries so a long-running process does not accumulate them.
type RoomDirectory struct {
	rooms map[string][]string
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{rooms: make(map[string][]string)}
}

// Join adds username to the room, creating the room on first use. Joining a
// room twice is a no-op; the return value reports whether membership changed.
func (d *RoomDirectory) Join(noteID, username string) bool {
	members := d.rooms[noteID]
	if slices.Contains(members, username) {
		return false
	}
	d.rooms[noteID] = append(members, username)
	return true
}

// Leave removes every occurrence of username from the room. The room entry is
// retained even when it ends up empty.
func (d *RoomDirectory) Leave(noteID, username string) bool {
	members, ok := d.rooms[noteID]
	if !ok {
		return false
	}
	kept := slices.DeleteFunc(slices.Clone(members), func(m string) bool { return m == username })
	d.rooms[noteID] = kept
	return len(kept) != len(members)
}

// MembersOf returns a copy of the room's membership. The boolean is false when
// the room has never been joined (or has been pruned); an empty room that
// still has an entry reports true.
func (d *RoomDirectory) MembersOf(noteID string) ([]string, bool) {
	members, ok := d.rooms[noteID]
	if !ok {
		return nil, false
	}
	out := make([]string, len(members))
	copy(out, members)
	return out, true
}

// Prune drops every empty room entry and returns how many were removed.
func (d *RoomDirectory) Prune() int {
	n := 0
	for id, members := range d.rooms {
		if len(members) == 0 {
			delete(d.rooms, id)
			n++
		}
	}
	return n
}

// Len counts room entries, empty ones included.
func (d *RoomDirectory) Len() int {
	return len(d.rooms)
}
