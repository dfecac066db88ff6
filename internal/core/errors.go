package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeRoomFull       = "room_full"
	ErrCodeInvalidSession = "invalid_session"
	ErrCodeInvalidName    = "invalid_name"
	ErrCodeBadRequest     = "bad_request"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrInvalidSession = errors.New("invalid session")
	ErrInvalidName    = errors.New("invalid name")
	ErrBadRequest     = errors.New("bad request")

	// Table-level errors; never shown to participants.
	ErrAlreadyRegistered = errors.New("connection already has a session")
	ErrSessionNotFound   = errors.New("session not found")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
	err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.err
}

func coreError(code string, err error) *CoreError {
	return &CoreError{Code: code, Message: err.Error(), err: err}
}

// AsCoreError converts err into a participant-facing error. Unknown errors
// become a generic bad_request so internals never leak to clients.
func AsCoreError(err error) *CoreError {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce
	}
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return coreError(ErrCodeRoomNotFound, ErrRoomNotFound)
	case errors.Is(err, ErrRoomFull):
		return coreError(ErrCodeRoomFull, ErrRoomFull)
	case errors.Is(err, ErrInvalidSession), errors.Is(err, ErrSessionNotFound):
		return coreError(ErrCodeInvalidSession, ErrInvalidSession)
	case errors.Is(err, ErrInvalidName):
		return coreError(ErrCodeInvalidName, ErrInvalidName)
	default:
		return coreError(ErrCodeBadRequest, ErrBadRequest)
	}
}
