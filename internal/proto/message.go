package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin     = "join"
	InboundTypeSetName  = "set_name"
	InboundTypeTyping   = "typing"
	InboundTypeComplete = "complete"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventRoomState   = "room_state"
	EventJoinAck     = "join_ack"
	EventNameRequest = "name_request"
	EventNameSet     = "name_set"
)

// JoinData requests a seat in a room.
type JoinData struct {
	Room string `json:"room"`
}

// SetNameData chooses the display name of the caller's seat.
type SetNameData struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

// TextData carries the current text for typing and complete messages.
type TextData struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// RoomState is the per-viewer projection of a room. Absent names are
// omitted rather than sent as empty strings.
type RoomState struct {
	RoomID      string       `json:"room_id"`
	FirstUser   *string      `json:"first_user,omitempty"`
	SecondUser  *string      `json:"second_user,omitempty"`
	Turn        string       `json:"turn"`
	Occupancy   string       `json:"occupancy"`
	IsRoomFull  bool         `json:"is_room_full"`
	Messages    []Message    `json:"messages"`
	CurrentUser *CurrentUser `json:"current_user,omitempty"`
}

// Message is one log entry.
type Message struct {
	Text        string `json:"text"`
	Sender      string `json:"sender"`
	IsCompleted bool   `json:"is_completed"`
}

// CurrentUser describes the viewer's own seat.
type CurrentUser struct {
	Role string  `json:"role"`
	Name *string `json:"name,omitempty"`
}

// JoinAck confirms the seat assigned on join.
type JoinAck struct {
	Room     string `json:"room"`
	Role     string `json:"role"`
	Protocol int    `json:"protocol"`
}

// NameRequest asks the joiner to pick a display name.
type NameRequest struct {
	Room string `json:"room"`
}

// NameSet confirms a display name.
type NameSet struct {
	Success bool `json:"success"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
