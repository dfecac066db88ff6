package core

// Message is one entry of a room log. An incomplete message is the live
// preview of what the current sender is typing.
type Message struct {
	Text      string
	Sender    Role
	Completed bool
}
