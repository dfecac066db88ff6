package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/turntalk-server/internal/proto"
)

type outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

type participant struct {
	name string
	conn *websocket.Conn
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	server := flag.String("server", "http://localhost:3001", "server base URL")
	text := flag.String("text", "hello from smoke test", "message text the first participant sends")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	roomID, err := createRoom(ctx, *server)
	if err != nil {
		return err
	}
	fmt.Printf("room %s created\n", roomID)

	wsURL := strings.Replace(*server, "http", "ws", 1) + "/ws"
	first, err := seat(ctx, wsURL, roomID, "smoke-a", "first")
	if err != nil {
		return err
	}
	defer first.conn.Close(websocket.StatusNormalClosure, "bye")

	second, err := seat(ctx, wsURL, roomID, "smoke-b", "second")
	if err != nil {
		return err
	}
	defer second.conn.Close(websocket.StatusNormalClosure, "bye")

	if _, err := first.waitState(ctx, func(s proto.RoomState) bool { return s.IsRoomFull }); err != nil {
		return err
	}
	fmt.Println("room is full")

	if err := send(ctx, first.conn, proto.InboundTypeTyping, proto.TextData{Room: roomID, Text: *text}); err != nil {
		return err
	}
	if _, err := second.waitState(ctx, func(s proto.RoomState) bool {
		n := len(s.Messages)
		return n > 0 && !s.Messages[n-1].IsCompleted && s.Messages[n-1].Text == *text
	}); err != nil {
		return err
	}
	fmt.Println("typing preview delivered")

	if err := send(ctx, first.conn, proto.InboundTypeComplete, proto.TextData{Room: roomID, Text: *text}); err != nil {
		return err
	}
	state, err := second.waitState(ctx, func(s proto.RoomState) bool { return s.Turn == "second" })
	if err != nil {
		return err
	}
	if len(state.Messages) != 1 || !state.Messages[0].IsCompleted {
		return fmt.Errorf("unexpected log after complete: %+v", state.Messages)
	}
	fmt.Println("message completed, turn passed to second")
	return nil
}

func createRoom(ctx context.Context, server string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server+"/api/rooms", bytes.NewReader(nil))
	if err != nil {
		return "", fmt.Errorf("build create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create room: unexpected status %d", resp.StatusCode)
	}
	var body struct {
		RoomID string `json:"room_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	return body.RoomID, nil
}

// seat dials, joins and names one participant, checking the assigned role.
func seat(ctx context.Context, wsURL, roomID, name, wantRole string) (*participant, error) {
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", name, err)
	}
	p := &participant{name: name, conn: conn}

	if err := send(ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: roomID}); err != nil {
		return nil, err
	}
	out, err := p.waitEvent(ctx, proto.EventJoinAck)
	if err != nil {
		return nil, err
	}
	var ack proto.JoinAck
	if err := json.Unmarshal(out.Data, &ack); err != nil {
		return nil, fmt.Errorf("unmarshal join_ack: %w", err)
	}
	if ack.Role != wantRole {
		return nil, fmt.Errorf("%s seated as %s, want %s", name, ack.Role, wantRole)
	}

	if err := send(ctx, conn, proto.InboundTypeSetName, proto.SetNameData{Room: roomID, Name: name}); err != nil {
		return nil, err
	}
	if _, err := p.waitEvent(ctx, proto.EventNameSet); err != nil {
		return nil, err
	}
	fmt.Printf("%s seated as %s\n", name, ack.Role)
	return p, nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func (p *participant) waitEvent(ctx context.Context, event string) (outbound, error) {
	for {
		var out outbound
		if err := wsjson.Read(ctx, p.conn, &out); err != nil {
			return out, fmt.Errorf("%s waiting for %s: %w", p.name, event, err)
		}
		if out.Type == proto.OutboundTypeError && out.Error != nil {
			return out, fmt.Errorf("%s got error %s: %s", p.name, out.Error.Code, out.Error.Msg)
		}
		if out.Event == event {
			return out, nil
		}
	}
}

func (p *participant) waitState(ctx context.Context, accept func(proto.RoomState) bool) (proto.RoomState, error) {
	for {
		out, err := p.waitEvent(ctx, proto.EventRoomState)
		if err != nil {
			return proto.RoomState{}, err
		}
		var state proto.RoomState
		if err := json.Unmarshal(out.Data, &state); err != nil {
			return state, fmt.Errorf("unmarshal room_state: %w", err)
		}
		if accept(state) {
			return state, nil
		}
	}
}
