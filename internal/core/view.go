package core

// View is the per-viewer projection of a room.
type View struct {
	RoomID    string
	First     *string
	Second    *string
	Turn      Role
	Occupancy Occupancy
	Full      bool
	Messages  []Message
	// Viewer is nil for anonymous snapshots.
	Viewer *ViewerInfo
}

// ViewerInfo describes the seat of the connection receiving a View.
type ViewerInfo struct {
	Role Role
	Name *string
}

// Project builds the view of room for viewer, which may be nil. It has no side
// effects and must be called with the room lock held.
func Project(room *Room, viewer *Session) View {
	v := View{
		RoomID:    room.ID(),
		Turn:      room.Turn(),
		Occupancy: room.Occupancy(),
		Messages:  room.Messages(),
	}
	v.Full = v.Occupancy == OccupancyFull
	if name, ok := room.Name(RoleFirst); ok {
		v.First = &name
	}
	if name, ok := room.Name(RoleSecond); ok {
		v.Second = &name
	}
	if viewer != nil {
		info := &ViewerInfo{Role: viewer.Role}
		if viewer.DisplayName != nil {
			name := *viewer.DisplayName
			info.Name = &name
		}
		v.Viewer = info
	}
	return v
}
