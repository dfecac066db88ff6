package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/turntalk-server/internal/config"
	"github.com/vovakirdan/turntalk-server/internal/core"
	"github.com/vovakirdan/turntalk-server/internal/metrics"
	"github.com/vovakirdan/turntalk-server/internal/proto"
)

type testEnv struct {
	ts      *httptest.Server
	hub     *core.Hub
	metrics *metrics.Metrics
}

// startTestServer runs the full router on an httptest server.
func startTestServer(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	disabledLogger := zerolog.Nop()
	m := metrics.New()
	hub := core.NewHub(&disabledLogger, m)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.PingInterval = 0
	if mutate != nil {
		mutate(&cfg)
	}

	server := NewServer(hub, &cfg, m, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, hub: hub, metrics: m}
}

func (e *testEnv) dial(t *testing.T, ctx context.Context) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(e.ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("send %s: %v", typ, err)
	}
}

type rawOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// readUntil reads frames until match accepts one.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(rawOutbound) bool) rawOutbound {
	t.Helper()

	for {
		var out rawOutbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read outbound: %v", err)
		}
		if match(out) {
			return out
		}
	}
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) rawOutbound {
	t.Helper()
	return readUntil(t, ctx, conn, func(o rawOutbound) bool { return o.Event == event })
}

// readState reads room_state frames until accept returns true.
func readState(t *testing.T, ctx context.Context, conn *websocket.Conn, accept func(proto.RoomState) bool) proto.RoomState {
	t.Helper()

	for {
		out := readEvent(t, ctx, conn, proto.EventRoomState)
		var state proto.RoomState
		if err := json.Unmarshal(out.Data, &state); err != nil {
			t.Fatalf("unmarshal room state: %v", err)
		}
		if accept(state) {
			return state
		}
	}
}
