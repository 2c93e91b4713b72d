// Package hub owns the fixed room set and the session registry. Rooms are
// created once at startup and never destroyed; sessions enforce at most one
// live connection per identity.
package hub

import (
	"context"

	"go.uber.org/zap"

	"bridgetable/internal/room"
	"bridgetable/pkg/types"
)

type Msg interface{ isHubMsg() }

// RegisterSession binds a connection to an identity. A previous connection
// for the same identity is force-notified and superseded. Reply carries the
// room the identity already belongs to, if any.
type RegisterSession struct {
	Identity string
	Outbox   chan types.ServerMessage
	Reply    chan string
}

// UnregisterSession releases a connection. Outbox guards against a stale
// teardown unbinding a newer session.
type UnregisterSession struct {
	Identity string
	Outbox   chan types.ServerMessage
}

// SetMembership records which room an identity occupies (posted by rooms).
type SetMembership struct {
	Identity string
	Room     string
	Joined   bool
}

type ShutdownHub struct{}

func (RegisterSession) isHubMsg()   {}
func (UnregisterSession) isHubMsg() {}
func (SetMembership) isHubMsg()     {}
func (ShutdownHub) isHubMsg()       {}

type Hub struct {
	inbox chan Msg
	log   *zap.SugaredLogger

	// rooms is immutable after construction; reads need no coordination.
	rooms map[string]*room.Room
	order []string

	sessions   map[string]chan types.ServerMessage
	membership map[string]string

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds the hub and one room actor per configured room.
func New(parent context.Context, log *zap.SugaredLogger, roomCfgs []room.Config) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &Hub{
		inbox:      make(chan Msg, 64),
		log:        log,
		rooms:      make(map[string]*room.Room, len(roomCfgs)),
		sessions:   make(map[string]chan types.ServerMessage),
		membership: make(map[string]string),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, cfg := range roomCfgs {
		id := cfg.ID
		cfg.OnMembership = func(identity string, joined bool) {
			// Rooms must never block on the hub.
			go func() {
				select {
				case h.inbox <- SetMembership{Identity: identity, Room: id, Joined: joined}:
				case <-ctx.Done():
				}
			}()
		}
		h.rooms[id] = room.New(ctx, cfg)
		h.order = append(h.order, id)
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

// Room looks up a fixed room by identifier; nil when unknown.
func (h *Hub) Room(id string) *room.Room { return h.rooms[id] }

// RoomIDs returns the fixed identifiers in configuration order.
func (h *Hub) RoomIDs() []string { return h.order }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case m := <-h.inbox:
			switch msg := m.(type) {
			case RegisterSession:
				h.register(msg)
			case UnregisterSession:
				if h.sessions[msg.Identity] == msg.Outbox {
					delete(h.sessions, msg.Identity)
				}
			case SetMembership:
				if msg.Joined {
					h.membership[msg.Identity] = msg.Room
				} else if h.membership[msg.Identity] == msg.Room {
					delete(h.membership, msg.Identity)
				}
			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) register(m RegisterSession) {
	if old := h.sessions[m.Identity]; old != nil {
		// At most one live connection per identity: the older connection is
		// notified and superseded, never the new one rejected.
		h.log.Infow("superseding session", "identity", m.Identity)
		select {
		case old <- types.ServerMessage{Type: types.KindForceLogout, Reason: "signed in elsewhere"}:
		default:
		}
	}
	h.sessions[m.Identity] = m.Outbox
	m.Reply <- h.membership[m.Identity]
}
