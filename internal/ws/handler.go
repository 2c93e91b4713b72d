// Package ws is the websocket transport: it registers the session, decodes
// wire messages and dispatches them into the room actor. All game decisions
// live behind the room inbox; this layer only translates.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"bridgetable/internal/hub"
	"bridgetable/internal/room"
	"bridgetable/pkg/types"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.SugaredLogger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		identity := r.URL.Query().Get("identity")
		if identity == "" {
			http.Error(w, "missing identity", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// Registration doubles as session-register: a prior connection for
		// this identity is force-logged-out by the hub.
		outbox := make(chan types.ServerMessage, 16)
		reply := make(chan string, 1)
		h.Inbox() <- hub.RegisterSession{Identity: identity, Outbox: outbox, Reply: reply}
		prior := <-reply

		var joined *room.Room
		defer func() {
			if joined != nil {
				joined.Inbox() <- room.Disconnect{Identity: identity, Outbox: outbox}
			}
			h.Inbox() <- hub.UnregisterSession{Identity: identity, Outbox: outbox}
		}()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go writer(writeCtx, conn, outbox)

		if prior != "" {
			outbox <- types.ServerMessage{Type: types.KindSessionFound, Room: prior}
		}

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Debugw("bad message", "identity", identity, "err", err)
				continue
			}

			switch cm.Type {
			case types.KindJoinRequest:
				rm := h.Room(cm.Room)
				if rm == nil {
					outbox <- types.ServerMessage{Type: types.KindJoinReject, Reason: "no such room"}
					continue
				}
				jr := make(chan room.JoinResult, 1)
				rm.Inbox() <- room.Join{Identity: identity, Name: cm.Name, Outbox: outbox, Reply: jr}
				res := <-jr
				if !res.OK {
					outbox <- types.ServerMessage{Type: types.KindJoinReject, Room: cm.Room, Reason: res.Reason}
					continue
				}
				joined = rm
				seat := res.Seat
				snap := res.Snapshot
				outbox <- types.ServerMessage{Type: types.KindJoinAccept, Room: cm.Room, Seat: &seat, State: &snap}

			case types.KindLeave:
				if joined != nil {
					joined.Inbox() <- room.Leave{Identity: identity}
					joined = nil
				}

			case types.KindMessage, types.KindEmote, types.KindInteraction:
				if joined != nil {
					joined.Inbox() <- room.Relay{Identity: identity, Event: toEvent(cm)}
				}

			default:
				act, ok := toAction(cm)
				if !ok || joined == nil {
					continue
				}
				joined.Inbox() <- room.FromClient{Identity: identity, Act: act}
			}
		}
	}
}

// writer drains the outbox onto the wire. A force-logout closes the
// connection after delivery; the read loop then unwinds the session.
func writer(ctx context.Context, conn *websocket.Conn, outbox <-chan types.ServerMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-outbox:
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			_ = conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if msg.Type == types.KindForceLogout {
				conn.Close(websocket.StatusPolicyViolation, "superseded")
				return
			}
		}
	}
}

func toAction(cm types.ClientMessage) (room.Action, bool) {
	switch cm.Type {
	case types.KindBid:
		if cm.Bid == nil {
			return nil, false
		}
		return room.BidAction{Bid: *cm.Bid}, true
	case types.KindPlay:
		if cm.Card == nil {
			return nil, false
		}
		return room.PlayAction{Card: *cm.Card}, true
	case types.KindReady:
		return room.ReadyAction{}, true
	case types.KindSurrender:
		return room.SurrenderAction{}, true
	case types.KindDeal:
		return room.DealAction{}, true
	case types.KindRestart:
		return room.RestartAction{}, true
	case types.KindAddBot:
		return room.AddBotAction{}, true
	case types.KindRequestRedeal:
		return room.RedealRequestAction{Points: cm.Points}, true
	default:
		return nil, false
	}
}

func toEvent(cm types.ClientMessage) types.ServerMessage {
	return types.ServerMessage{
		Type:  cm.Type,
		Text:  cm.Text,
		Emoji: cm.Emoji,
		Kind:  cm.Kind,
		To:    cm.To,
	}
}
