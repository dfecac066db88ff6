package core

import (
	"github.com/rs/zerolog"

	"github.com/vovakirdan/turntalk-server/internal/metrics"
)

// Deliverer hands an event to the transport of one connection. It must not
// block; false means the event was not queued.
type Deliverer interface {
	Deliver(connID string, event *Event) bool
}

// Broadcaster pushes personalised room projections to every attached session.
type Broadcaster struct {
	sessions *SessionTable
	out      Deliverer
	metrics  *metrics.Metrics
	log      *zerolog.Logger
}

// NewBroadcaster builds a broadcaster over the given session table.
func NewBroadcaster(sessions *SessionTable, out Deliverer, m *metrics.Metrics, logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{sessions: sessions, out: out, metrics: m, log: logger}
}

// Broadcast sends each session of room its own view. The caller holds the
// room lock, so every view reflects the mutation that triggered it.
func (b *Broadcaster) Broadcast(room *Room) int {
	if room.Closed() {
		b.log.Error().Str("room_id", room.ID()).Msg("broadcast requested for destroyed room")
		return 0
	}

	delivered := 0
	for _, s := range b.sessions.ForRoom(room.ID()) {
		view := Project(room, s)
		if b.Send(s.ConnID, &Event{Kind: EventRoomState, Room: room.ID(), Role: s.Role, View: &view}) {
			delivered++
		}
	}
	return delivered
}

// Send delivers a single event, counting it when the transport refuses it.
func (b *Broadcaster) Send(connID string, event *Event) bool {
	if b.out == nil {
		return false
	}
	if b.out.Deliver(connID, event) {
		return true
	}
	b.metrics.EventDropped()
	b.log.Warn().Str("conn_id", connID).Stringer("event", event.Kind).Msg("event dropped")
	return false
}
