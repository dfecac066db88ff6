package core

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/turntalk-server/internal/metrics"
)

// MaxNameRunes bounds display names.
const MaxNameRunes = 64

// Coordinator is the turn-taking state machine. It is the only writer of the
// registry, the session table and room state.
//
// Locking: a room's lock is taken before the registry or session table locks,
// never after.
type Coordinator struct {
	rooms    *Registry
	sessions *SessionTable
	bc       *Broadcaster
	metrics  *metrics.Metrics
	log      *zerolog.Logger
}

// NewCoordinator wires a coordinator with fresh, owned state. A nil logger
// disables logging and nil metrics record nothing.
func NewCoordinator(out Deliverer, logger *zerolog.Logger, m *metrics.Metrics) *Coordinator {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	sessions := NewSessionTable()
	return &Coordinator{
		rooms:    NewRegistry(),
		sessions: sessions,
		bc:       NewBroadcaster(sessions, out, m, logger),
		metrics:  m,
		log:      logger,
	}
}

// CreateRoom allocates a room and returns its id.
func (c *Coordinator) CreateRoom() string {
	room := c.rooms.Create()
	c.metrics.SetRooms(c.rooms.Len())
	c.log.Info().Str("room_id", room.ID()).Int("total_rooms", c.rooms.Len()).Msg("room created")
	return room.ID()
}

// Snapshot projects a room without viewer-specific fields.
func (c *Coordinator) Snapshot(roomID string) (View, error) {
	room, err := c.lockRoom(roomID)
	if err != nil {
		return View{}, err
	}
	defer room.unlock()
	return Project(room, nil), nil
}

// Join claims a seat for connID. Replaying a join for the room the connection
// already sits in re-acknowledges the same seat.
func (c *Coordinator) Join(connID, roomID string) (Role, error) {
	room, err := c.lockRoom(roomID)
	if err != nil {
		return "", err
	}
	defer room.unlock()

	if existing, err := c.sessions.Lookup(connID); err == nil {
		if existing.RoomID != roomID {
			return "", coreError(ErrCodeInvalidSession, ErrInvalidSession)
		}
		c.log.Debug().Str("conn_id", connID).Str("room_id", roomID).Msg("join replayed")
		c.ackJoin(connID, roomID, existing.Role)
		return existing.Role, nil
	}

	role, ok := c.freeSeat(roomID)
	if !ok {
		return "", coreError(ErrCodeRoomFull, ErrRoomFull)
	}
	if _, err := c.sessions.Register(connID, roomID, role); err != nil {
		return "", coreError(ErrCodeInvalidSession, ErrInvalidSession)
	}
	c.metrics.SetSessions(c.sessions.Len())

	c.log.Info().Str("conn_id", connID).Str("room_id", roomID).Str("role", string(role)).Msg("seat assigned")
	c.ackJoin(connID, roomID, role)
	return role, nil
}

// SetName sets the display name of the caller's seat and makes it visible to
// the room. Setting a name again overwrites it.
func (c *Coordinator) SetName(connID, roomID, name string) error {
	s, err := c.sessions.Lookup(connID)
	if err != nil || s.RoomID != roomID {
		return coreError(ErrCodeInvalidSession, ErrInvalidSession)
	}

	room, err := c.lockRoom(roomID)
	if err != nil {
		return err
	}
	defer room.unlock()

	if cur, err := c.sessions.Lookup(connID); err != nil || cur != s {
		return coreError(ErrCodeInvalidSession, ErrInvalidSession)
	}

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameRunes {
		return coreError(ErrCodeInvalidName, ErrInvalidName)
	}

	s.DisplayName = &name
	room.setName(s.Role, name)
	c.log.Info().Str("conn_id", connID).Str("room_id", roomID).Str("role", string(s.Role)).
		Stringer("occupancy", room.Occupancy()).Msg("name set")

	c.bc.Send(connID, &Event{Kind: EventNameSet, Room: roomID, Role: s.Role, Success: true})
	c.bc.Broadcast(room)
	return nil
}

// UpdateTyping replaces the live preview of the active sender. It reports
// whether the update was applied; updates from the waiting seat are ignored.
func (c *Coordinator) UpdateTyping(connID, roomID, text string) bool {
	return c.withTurn(connID, roomID, func(room *Room) {
		room.updatePreview(text)
	})
}

// CompleteMessage finalizes the active sender's message and passes the turn,
// even when the text is blank. Calls from the waiting seat are ignored.
func (c *Coordinator) CompleteMessage(connID, roomID, text string) bool {
	return c.withTurn(connID, roomID, func(room *Room) {
		room.complete(text)
	})
}

// Disconnect frees the seat held by connID. The room is destroyed once no seat
// has a name.
func (c *Coordinator) Disconnect(connID string) {
	s, err := c.sessions.Lookup(connID)
	if err != nil {
		return
	}

	room, err := c.lockRoom(s.RoomID)
	if err != nil {
		c.sessions.Unregister(connID)
		c.metrics.SetSessions(c.sessions.Len())
		return
	}
	defer room.unlock()

	c.sessions.Unregister(connID)
	c.metrics.SetSessions(c.sessions.Len())
	room.clearName(s.Role)

	logger := c.log.With().Str("conn_id", connID).Str("room_id", s.RoomID).Str("role", string(s.Role)).Logger()
	if room.Occupancy() == OccupancyEmpty {
		c.rooms.Remove(room.ID())
		c.metrics.SetRooms(c.rooms.Len())
		logger.Info().Int("total_rooms", c.rooms.Len()).Msg("seat freed, room destroyed")
		return
	}
	logger.Info().Msg("seat freed")
	c.bc.Broadcast(room)
}

// Session returns the session held by connID.
func (c *Coordinator) Session(connID string) (*Session, error) {
	return c.sessions.Lookup(connID)
}

// RoomCount returns the number of live rooms.
func (c *Coordinator) RoomCount() int {
	return c.rooms.Len()
}

func (c *Coordinator) withTurn(connID, roomID string, apply func(*Room)) bool {
	s, err := c.sessions.Lookup(connID)
	if err != nil || s.RoomID != roomID {
		return false
	}
	room, err := c.lockRoom(roomID)
	if err != nil {
		return false
	}
	defer room.unlock()

	if room.Turn() != s.Role {
		return false
	}
	apply(room)
	c.bc.Broadcast(room)
	return true
}

// lockRoom resolves and locks a live room. The caller must unlock it.
func (c *Coordinator) lockRoom(roomID string) (*Room, error) {
	room, err := c.rooms.Get(roomID)
	if err != nil {
		return nil, coreError(ErrCodeRoomNotFound, ErrRoomNotFound)
	}
	room.lock()
	if room.Closed() {
		room.unlock()
		return nil, coreError(ErrCodeRoomNotFound, ErrRoomNotFound)
	}
	return room, nil
}

func (c *Coordinator) freeSeat(roomID string) (Role, bool) {
	taken := make(map[Role]bool, len(roles))
	for _, s := range c.sessions.ForRoom(roomID) {
		taken[s.Role] = true
	}
	for _, r := range roles {
		if !taken[r] {
			return r, true
		}
	}
	return "", false
}

func (c *Coordinator) ackJoin(connID, roomID string, role Role) {
	c.bc.Send(connID, &Event{Kind: EventJoinAck, Room: roomID, Role: role})
	c.bc.Send(connID, &Event{Kind: EventNameRequest, Room: roomID, Role: role})
}
