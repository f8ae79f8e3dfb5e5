// Package collab is the real-time collaboration core: it tracks which users are
// viewing which note (rooms), publishes membership snapshots when that
// changes, and relays in-progress edits between the sessions of a room.
//
// Nothing in this package performs I/O or is safe for concurrent use. A
// Coordinator is owned by exactly one goroutine (see queue.Dispatcher), which
// feeds it events one at a time and delivers the returned messages, so each
// join, leave and publish sequence for a room is atomic.
package collab
