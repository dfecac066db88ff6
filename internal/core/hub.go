package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/turntalk-server/internal/metrics"
)

// Hub tracks live clients and routes their commands into the coordinator.
type Hub struct {
	coord   *Coordinator
	metrics *metrics.Metrics
	log     *zerolog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a hub with its own coordinator state.
func NewHub(logger *zerolog.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &Hub{
		metrics: m,
		log:     logger,
		clients: make(map[string]*Client),
	}
	h.coord = NewCoordinator(h, logger, m)
	return h
}

// Coordinator exposes the underlying state machine.
func (h *Hub) Coordinator() *Coordinator {
	return h.coord
}

// RegisterClient makes a client reachable for event delivery.
func (h *Hub) RegisterClient(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.log.Debug().Str("client_id", c.ID).Msg("client registered")
}

// UnregisterClient frees the client's seat and closes its event queue.
// Calling it twice is harmless.
func (h *Hub) UnregisterClient(c *Client) {
	h.coord.Disconnect(c.ID)

	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.ID]; ok && cur == c {
		delete(h.clients, c.ID)
		close(c.Events)
		h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
	}
}

// Deliver queues an event for a client without blocking.
func (h *Hub) Deliver(connID string, event *Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	select {
	case c.Events <- event:
		return true
	default:
		// Drop if slow consumer.
		return false
	}
}

// Handle applies one client command. Domain errors are sent back to the
// client as EventError and also returned.
func (h *Hub) Handle(c *Client, cmd *Command) error {
	if cmd == nil {
		return nil
	}

	var err error
	result := "ok"
	switch cmd.Kind {
	case CommandJoin:
		_, err = h.coord.Join(c.ID, cmd.Room)
	case CommandSetName:
		err = h.coord.SetName(c.ID, cmd.Room, cmd.Text)
	case CommandUpdateTyping:
		if !h.coord.UpdateTyping(c.ID, cmd.Room, cmd.Text) {
			result = "ignored"
		}
	case CommandCompleteMessage:
		if !h.coord.CompleteMessage(c.ID, cmd.Room, cmd.Text) {
			result = "ignored"
		}
	default:
		err = coreError(ErrCodeBadRequest, ErrBadRequest)
	}

	if err != nil {
		ce := AsCoreError(err)
		result = ce.Code
		h.log.Debug().Str("client_id", c.ID).Stringer("command", cmd.Kind).Str("code", ce.Code).Msg("command rejected")
		h.coord.bc.Send(c.ID, &Event{Kind: EventError, Room: cmd.Room, Error: ce})
	}
	h.metrics.ObserveCommand(cmd.Kind.String(), result)
	return err
}

// CreateRoom allocates a new room.
func (h *Hub) CreateRoom() string {
	return h.coord.CreateRoom()
}

// RoomSnapshot returns the anonymous view of a room.
func (h *Hub) RoomSnapshot(roomID string) (View, error) {
	return h.coord.Snapshot(roomID)
}

// Run blocks until ctx is done, then disconnects every remaining client.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.UnregisterClient(c)
	}
	h.log.Info().Int("clients", len(clients)).Msg("hub stopped")
	return nil
}
