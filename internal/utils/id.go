package utils

import "github.com/google/uuid"

// NewRoomID returns a random UUID v4 used as a room identifier.
func NewRoomID() string {
	return uuid.NewString()
}

// NewConnID returns an identifier for a live connection. It is only unique
// while the connection is open and is never reused for reconnects.
func NewConnID() string {
	return "c-" + uuid.NewString()
}
