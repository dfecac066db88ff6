package core

import "testing"

func TestOccupancyFollowsNames(t *testing.T) {
	r := NewRoom("r")
	if r.Occupancy() != OccupancyEmpty {
		t.Fatalf("new room occupancy = %v", r.Occupancy())
	}
	r.setName(RoleSecond, "Bo")
	if r.Occupancy() != OccupancyOneOccupant {
		t.Fatalf("one name occupancy = %v", r.Occupancy())
	}
	r.setName(RoleFirst, "Al")
	if r.Occupancy() != OccupancyFull {
		t.Fatalf("two names occupancy = %v", r.Occupancy())
	}
	r.clearName(RoleSecond)
	r.clearName(RoleFirst)
	if r.Occupancy() != OccupancyEmpty {
		t.Fatalf("cleared occupancy = %v", r.Occupancy())
	}
}

func TestPreviewKeepsTextVerbatim(t *testing.T) {
	r := NewRoom("r")
	r.updatePreview("  padded ")
	msgs := r.Messages()
	if len(msgs) != 1 || msgs[0].Text != "  padded " || msgs[0].Completed {
		t.Fatalf("unexpected log: %+v", msgs)
	}

	r.updatePreview(" \n")
	if n := len(r.Messages()); n != 0 {
		t.Fatalf("blank preview must clear the log tail, got %d entries", n)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	r := NewRoom("r")
	r.complete("hi")
	msgs := r.Messages()
	msgs[0].Text = "mutated"
	if r.Messages()[0].Text != "hi" {
		t.Fatal("Messages leaked internal slice")
	}
}

func TestRoleOther(t *testing.T) {
	if RoleFirst.Other() != RoleSecond || RoleSecond.Other() != RoleFirst {
		t.Fatal("Other must swap seats")
	}
	if Role("third").Valid() {
		t.Fatal("unknown role reported valid")
	}
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	g := NewRegistry()
	room := g.Create()
	g.Remove(room.ID())
	g.Remove(room.ID())

	if !room.Closed() {
		t.Fatal("removed room must be marked closed")
	}
	if _, err := g.Get(room.ID()); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if g.Len() != 0 {
		t.Fatalf("registry len = %d", g.Len())
	}
}

func TestRegistryRetriesIDCollision(t *testing.T) {
	g := NewRegistry()
	ids := []string{"dup", "dup", "fresh"}
	g.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	a := g.Create()
	b := g.Create()
	if a.ID() != "dup" || b.ID() != "fresh" {
		t.Fatalf("ids = %q, %q", a.ID(), b.ID())
	}
}

func TestSessionTable(t *testing.T) {
	tbl := NewSessionTable()
	if _, err := tbl.Register("b", "r", RoleSecond); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := tbl.Register("a", "r", RoleFirst); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := tbl.Register("a", "r", RoleFirst); err != ErrAlreadyRegistered {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if _, err := tbl.Register("x", "other", RoleFirst); err != nil {
		t.Fatalf("register: %v", err)
	}

	got := tbl.ForRoom("r")
	if len(got) != 2 || got[0].ConnID != "a" || got[1].ConnID != "b" {
		t.Fatalf("ForRoom order = %+v", got)
	}

	tbl.Unregister("a")
	tbl.Unregister("a")
	if _, err := tbl.Lookup("a"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("len = %d", tbl.Len())
	}
}
