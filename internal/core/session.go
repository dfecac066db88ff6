package core

import (
	"sort"
	"sync"
)

// Session binds a live connection to a room seat.
type Session struct {
	ConnID      string
	RoomID      string
	Role        Role
	DisplayName *string
}

// SessionTable owns the mapping from connection id to session.
type SessionTable struct {
	mu     sync.RWMutex
	byConn map[string]*Session
}

// NewSessionTable creates an empty table.
func NewSessionTable() *SessionTable {
	return &SessionTable{byConn: make(map[string]*Session)}
}

// Register binds connID to a seat. Callers short-circuit re-joins before
// calling it, so a second registration for the same connection is an error.
func (t *SessionTable) Register(connID, roomID string, role Role) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byConn[connID]; exists {
		return nil, ErrAlreadyRegistered
	}
	s := &Session{ConnID: connID, RoomID: roomID, Role: role}
	t.byConn[connID] = s
	return s, nil
}

// Lookup returns the session for connID or ErrSessionNotFound.
func (t *SessionTable) Lookup(connID string) (*Session, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.byConn[connID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// ForRoom returns the sessions attached to roomID ordered by role, then connection id.
func (t *SessionTable) ForRoom(roomID string) []*Session {
	t.mu.RLock()
	out := make([]*Session, 0, len(roles))
	for _, s := range t.byConn {
		if s.RoomID == roomID {
			out = append(out, s)
		}
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role == RoleFirst
		}
		return out[i].ConnID < out[j].ConnID
	})
	return out
}

// Unregister drops the session for connID, if any.
func (t *SessionTable) Unregister(connID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byConn, connID)
}

// Len returns the number of live sessions.
func (t *SessionTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byConn)
}
