package core

import (
	"sync"

	"github.com/vovakirdan/turntalk-server/internal/utils"
)

// Registry owns the mapping from room id to room.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	newID func() string
}

// NewRegistry creates an empty registry that allocates ids with utils.NewRoomID.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		newID: utils.NewRoomID,
	}
}

// Create allocates a fresh room.
func (g *Registry) Create() *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.newID()
	for _, taken := g.rooms[id]; taken; _, taken = g.rooms[id] {
		id = g.newID()
	}
	room := NewRoom(id)
	g.rooms[id] = room
	return room
}

// Get returns the room with the given id or ErrRoomNotFound.
func (g *Registry) Get(id string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	room, ok := g.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove deletes a room. The caller must hold the room lock when the room is
// still reachable so that in-flight operations observe Closed.
func (g *Registry) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if room, ok := g.rooms[id]; ok {
		room.closed = true
		delete(g.rooms, id)
	}
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
