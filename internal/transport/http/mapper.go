package http

import (
	"encoding/json"

	"github.com/vovakirdan/turntalk-server/internal/core"
	"github.com/vovakirdan/turntalk-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandJoin, Room: join.Room}, nil, nil
	case proto.InboundTypeSetName:
		var data proto.SetNameData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandSetName, Room: data.Room, Text: data.Name}, nil, nil
	case proto.InboundTypeTyping, proto.InboundTypeComplete:
		var data proto.TextData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		kind := core.CommandUpdateTyping
		if inbound.Type == proto.InboundTypeComplete {
			kind = core.CommandCompleteMessage
		}
		return &core.Command{Kind: kind, Room: data.Room, Text: data.Text}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func roomRequired() *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomState:
		if event.View == nil {
			return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventRoomState}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomState,
			Data:  roomStateFromView(*event.View),
		}
	case core.EventJoinAck:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventJoinAck,
			Data: proto.JoinAck{
				Room:     event.Room,
				Role:     string(event.Role),
				Protocol: proto.ProtocolVersion,
			},
		}
	case core.EventNameRequest:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRequest,
			Data:  proto.NameRequest{Room: event.Room},
		}
	case core.EventNameSet:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameSet,
			Data:  proto.NameSet{Success: event.Success},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func roomStateFromView(view core.View) proto.RoomState {
	messages := make([]proto.Message, 0, len(view.Messages))
	for _, msg := range view.Messages {
		messages = append(messages, proto.Message{
			Text:        msg.Text,
			Sender:      string(msg.Sender),
			IsCompleted: msg.Completed,
		})
	}

	state := proto.RoomState{
		RoomID:     view.RoomID,
		FirstUser:  view.First,
		SecondUser: view.Second,
		Turn:       string(view.Turn),
		Occupancy:  view.Occupancy.String(),
		IsRoomFull: view.Full,
		Messages:   messages,
	}
	if view.Viewer != nil {
		state.CurrentUser = &proto.CurrentUser{
			Role: string(view.Viewer.Role),
			Name: view.Viewer.Name,
		}
	}
	return state
}
