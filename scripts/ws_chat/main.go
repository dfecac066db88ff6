package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

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

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	server := flag.String("server", "http://localhost:3001", "server base URL")
	name := flag.String("name", "cli-user", "display name")
	room := flag.String("room", "", "room to join; empty creates a new one")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	if *room == "" {
		id, err := createRoom(ctx, *server)
		if err != nil {
			return err
		}
		*room = id
		fmt.Printf("Created room %s\n", id)
	}

	wsURL := strings.Replace(*server, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: *room}); err != nil {
		return err
	}
	if err := send(ctx, conn, proto.InboundTypeSetName, proto.SetNameData{Room: *room, Name: *name}); err != nil {
		return err
	}

	fmt.Printf("Connected to %s as %s in room %s\n", wsURL, *name, *room)
	fmt.Println("Enter sends a message. Prefix a line with ~ to show it as a typing preview. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *room)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func createRoom(ctx context.Context, server string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server+"/api/rooms", nil)
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

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if out.Type == proto.OutboundTypeError {
			if out.Error != nil {
				fmt.Printf("! %s: %s\n", out.Error.Code, out.Error.Msg)
			}
			continue
		}

		switch out.Event {
		case proto.EventJoinAck:
			var ack proto.JoinAck
			if err := json.Unmarshal(out.Data, &ack); err != nil {
				log.Printf("unmarshal join_ack: %v", err)
				continue
			}
			fmt.Printf("[room %s] seated as %s\n", ack.Room, ack.Role)
		case proto.EventRoomState:
			var state proto.RoomState
			if err := json.Unmarshal(out.Data, &state); err != nil {
				log.Printf("unmarshal room_state: %v", err)
				continue
			}
			printState(state)
		case proto.EventNameRequest, proto.EventNameSet:
		default:
			fmt.Printf("event=%s data=%s\n", out.Event, out.Data)
		}
	}
}

func printState(state proto.RoomState) {
	names := map[string]string{"first": "?", "second": "?"}
	if state.FirstUser != nil {
		names["first"] = *state.FirstUser
	}
	if state.SecondUser != nil {
		names["second"] = *state.SecondUser
	}

	fmt.Printf("--- %s, %s's turn\n", state.Occupancy, names[state.Turn])
	for _, msg := range state.Messages {
		marker := ""
		if !msg.IsCompleted {
			marker = " ..."
		}
		fmt.Printf("%s: %s%s\n", names[msg.Sender], msg.Text, marker)
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, room string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}

			typ, text := proto.InboundTypeComplete, line
			if preview, found := strings.CutPrefix(line, "~"); found {
				typ, text = proto.InboundTypeTyping, preview
			}
			if err := send(ctx, conn, typ, proto.TextData{Room: room, Text: text}); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
