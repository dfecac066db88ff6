package core

import (
	"sync"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// recorder is an in-memory Deliverer.
type recorder struct {
	mu     sync.Mutex
	events map[string][]*Event
	refuse map[string]bool
}

func newRecorder() *recorder {
	return &recorder{events: make(map[string][]*Event), refuse: make(map[string]bool)}
}

func (r *recorder) Deliver(connID string, ev *Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refuse[connID] {
		return false
	}
	r.events[connID] = append(r.events[connID], ev)
	return true
}

// take returns and clears everything delivered to connID.
func (r *recorder) take(connID string) []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events[connID]
	delete(r.events, connID)
	return out
}

// lastState returns the most recent room view delivered to connID.
func (r *recorder) lastState(t *testing.T, connID string) View {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	evs := r.events[connID]
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Kind == EventRoomState {
			return *evs[i].View
		}
	}
	t.Fatalf("no room state delivered to %s", connID)
	return View{}
}

func kinds(evs []*Event) []EventKind {
	out := make([]EventKind, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Kind)
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func newTestCoordinator(t *testing.T) (*Coordinator, *recorder) {
	t.Helper()
	rec := newRecorder()
	return NewCoordinator(rec, nil, nil), rec
}
