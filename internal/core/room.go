package core

import (
	"strings"
	"sync"
)

// Occupancy is the seat state of a room, derived from which roles have a name.
type Occupancy int

const (
	OccupancyEmpty Occupancy = iota
	OccupancyOneOccupant
	OccupancyFull
)

func (o Occupancy) String() string {
	switch o {
	case OccupancyEmpty:
		return "empty"
	case OccupancyOneOccupant:
		return "one_occupant"
	case OccupancyFull:
		return "full"
	default:
		return "unknown"
	}
}

// Room pairs two seats with a shared turn and message log.
//
// Every method except ID assumes the caller holds the room lock.
type Room struct {
	id string

	mu     sync.Mutex
	closed bool
	names  map[Role]string
	turn   Role
	log    []Message
}

// NewRoom constructs an empty room where the first seat holds the turn.
func NewRoom(id string) *Room {
	return &Room{
		id:    id,
		names: make(map[Role]string, len(roles)),
		turn:  RoleFirst,
	}
}

// ID returns the immutable room identifier.
func (r *Room) ID() string {
	return r.id
}

func (r *Room) lock()   { r.mu.Lock() }
func (r *Room) unlock() { r.mu.Unlock() }

// Closed reports whether the registry has already destroyed the room.
func (r *Room) Closed() bool {
	return r.closed
}

// Turn returns the role allowed to type and complete messages.
func (r *Room) Turn() Role {
	return r.turn
}

// Name returns the display name of a seat, if one is set.
func (r *Room) Name(role Role) (string, bool) {
	name, ok := r.names[role]
	return name, ok
}

func (r *Room) setName(role Role, name string) {
	r.names[role] = name
}

func (r *Room) clearName(role Role) {
	delete(r.names, role)
}

// Occupancy counts named seats.
func (r *Room) Occupancy() Occupancy {
	switch len(r.names) {
	case 0:
		return OccupancyEmpty
	case 1:
		return OccupancyOneOccupant
	default:
		return OccupancyFull
	}
}

// Messages returns a copy of the log.
func (r *Room) Messages() []Message {
	out := make([]Message, len(r.log))
	copy(out, r.log)
	return out
}

// dropPreview removes the trailing incomplete message, if any.
func (r *Room) dropPreview() {
	if n := len(r.log); n > 0 && !r.log[n-1].Completed {
		r.log = r.log[:n-1]
	}
}

// updatePreview replaces the live preview of the current sender. Blank text
// removes the preview instead of storing it.
func (r *Room) updatePreview(text string) {
	r.dropPreview()
	if strings.TrimSpace(text) == "" {
		return
	}
	r.log = append(r.log, Message{Text: text, Sender: r.turn})
}

// complete finalizes the current sender's message and hands the turn over.
// Blank text is not logged but still yields the turn.
func (r *Room) complete(text string) {
	r.dropPreview()
	if strings.TrimSpace(text) != "" {
		r.log = append(r.log, Message{Text: text, Sender: r.turn, Completed: true})
	}
	r.turn = r.turn.Other()
}
