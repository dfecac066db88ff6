package core

import (
	"context"
	"testing"
	"time"
)

func TestHubPairAndExchange(t *testing.T) {
	hub := NewHub(nil, nil)
	roomID := hub.CreateRoom()

	alice := NewClient("a", 16)
	bob := NewClient("b", 16)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	if err := hub.Handle(alice, &Command{Kind: CommandJoin, Room: roomID}); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	ack := mustEvent(t, alice.Events, EventJoinAck)
	if ack.Role != RoleFirst || ack.Room != roomID {
		t.Fatalf("unexpected join ack: %+v", ack)
	}
	mustEvent(t, alice.Events, EventNameRequest)

	_ = hub.Handle(alice, &Command{Kind: CommandSetName, Room: roomID, Text: "Al"})
	if ev := mustEvent(t, alice.Events, EventNameSet); !ev.Success {
		t.Fatalf("name not accepted: %+v", ev)
	}

	_ = hub.Handle(bob, &Command{Kind: CommandJoin, Room: roomID})
	if ack := mustEvent(t, bob.Events, EventJoinAck); ack.Role != RoleSecond {
		t.Fatalf("bob role = %q", ack.Role)
	}
	_ = hub.Handle(bob, &Command{Kind: CommandSetName, Room: roomID, Text: "Bo"})

	state := mustEvent(t, alice.Events, EventRoomState)
	for state.View == nil || !state.View.Full {
		state = mustEvent(t, alice.Events, EventRoomState)
	}

	_ = hub.Handle(alice, &Command{Kind: CommandCompleteMessage, Room: roomID, Text: "hi"})
	state = mustEvent(t, bob.Events, EventRoomState)
	for len(state.View.Messages) == 0 {
		state = mustEvent(t, bob.Events, EventRoomState)
	}
	if msg := state.View.Messages[0]; msg.Text != "hi" || msg.Sender != RoleFirst || !msg.Completed {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if state.View.Viewer == nil || state.View.Viewer.Role != RoleSecond {
		t.Fatalf("bob's view must be personalised: %+v", state.View.Viewer)
	}
}

func TestHubErrorsGoToOriginOnly(t *testing.T) {
	hub := NewHub(nil, nil)
	roomID := hub.CreateRoom()

	clients := []*Client{NewClient("a", 8), NewClient("b", 8), NewClient("c", 8)}
	for _, c := range clients {
		hub.RegisterClient(c)
		_ = hub.Handle(c, &Command{Kind: CommandJoin, Room: roomID})
	}

	ev := mustEvent(t, clients[2].Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeRoomFull {
		t.Fatalf("expected room_full error, got %+v", ev)
	}
	for _, c := range clients[:2] {
		for len(c.Events) > 0 {
			if got := <-c.Events; got.Kind == EventError {
				t.Fatalf("client %s received foreign error %+v", c.ID, got)
			}
		}
	}
}

func TestHubUnknownRoomError(t *testing.T) {
	hub := NewHub(nil, nil)
	alice := NewClient("a", 4)
	hub.RegisterClient(alice)

	_ = hub.Handle(alice, &Command{Kind: CommandJoin, Room: "ghost"})

	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeRoomNotFound {
		t.Fatalf("expected room_not_found error, got %+v", ev)
	}
}

func TestHubUnregisterFreesSeatAndClosesQueue(t *testing.T) {
	hub := NewHub(nil, nil)
	roomID := hub.CreateRoom()
	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	_ = hub.Handle(alice, &Command{Kind: CommandJoin, Room: roomID})
	_ = hub.Handle(alice, &Command{Kind: CommandSetName, Room: roomID, Text: "Al"})

	hub.UnregisterClient(alice)
	hub.UnregisterClient(alice)

	if _, err := hub.RoomSnapshot(roomID); err == nil {
		t.Fatal("room of the last named occupant must be destroyed")
	}
	for range alice.Events {
	}
	if hub.Deliver("a", &Event{Kind: EventRoomState}) {
		t.Fatal("delivery to unregistered client succeeded")
	}
}

func TestHubDeliverDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(nil, nil)
	c := NewClient("a", 1)
	hub.RegisterClient(c)

	if !hub.Deliver("a", &Event{Kind: EventRoomState}) {
		t.Fatal("first delivery refused")
	}
	if hub.Deliver("a", &Event{Kind: EventRoomState}) {
		t.Fatal("delivery to full queue must not block or succeed")
	}
}

func TestHubRunDisconnectsOnShutdown(t *testing.T) {
	hub := NewHub(nil, nil)
	roomID := hub.CreateRoom()
	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	_ = hub.Handle(alice, &Command{Kind: CommandJoin, Room: roomID})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if _, err := hub.Coordinator().Session("a"); err == nil {
		t.Fatal("session must be dropped on shutdown")
	}
}
