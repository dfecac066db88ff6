package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomState delivers the viewer's projection of a room.
	EventRoomState EventKind = iota
	// EventJoinAck confirms the seat assigned on join.
	EventJoinAck
	// EventNameRequest asks the joiner to choose a display name.
	EventNameRequest
	// EventNameSet confirms a display name was accepted.
	EventNameSet
	// EventError notifies the originating client about a domain error.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventRoomState:
		return "room_state"
	case EventJoinAck:
		return "join_ack"
	case EventNameRequest:
		return "name_request"
	case EventNameSet:
		return "name_set"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Room    string
	Role    Role
	View    *View // EventRoomState
	Success bool  // EventNameSet
	Error   *CoreError
}
