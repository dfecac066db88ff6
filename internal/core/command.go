package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin claims a seat in a room.
	CommandJoin CommandKind = iota
	// CommandSetName sets the display name of the claimed seat.
	CommandSetName
	// CommandUpdateTyping replaces the live preview of the active sender.
	CommandUpdateTyping
	// CommandCompleteMessage finalizes the active sender's message and passes the turn.
	CommandCompleteMessage
)

func (k CommandKind) String() string {
	switch k {
	case CommandJoin:
		return "join"
	case CommandSetName:
		return "set_name"
	case CommandUpdateTyping:
		return "typing"
	case CommandCompleteMessage:
		return "complete"
	default:
		return "unknown"
	}
}

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	Room string
	Text string // name for CommandSetName, message text otherwise
}
