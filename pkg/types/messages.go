// Package types defines the JSON envelopes exchanged over the websocket.
// Every message carries a string "type" tag; inside the process the ws
// layer converts client messages into the closed action union in
// internal/room so dispatch stays exhaustive at compile time.
package types

import "bridgetable/internal/engine"

// Client -> server message kinds.
const (
	KindJoinRequest   = "join-request"
	KindLeave         = "leave"
	KindBid           = "bid"
	KindReady         = "ready"
	KindPlay          = "play"
	KindSurrender     = "surrender"
	KindDeal          = "deal"
	KindRestart       = "restart"
	KindAddBot        = "add-bot"
	KindRequestRedeal = "request-redeal"

	// Relayed, non-state events (also server -> client).
	KindMessage     = "message"
	KindEmote       = "emote"
	KindInteraction = "interaction"
)

// Server -> client message kinds.
const (
	KindJoinAccept   = "join-accept"
	KindJoinReject   = "join-reject"
	KindStateUpdate  = "state-update"
	KindSessionFound = "session-found"
	KindForceLogout  = "force-logout"
	KindRedealStatus = "redeal-status"
)

type ClientMessage struct {
	Type   string       `json:"type"`
	Room   string       `json:"room,omitempty"`
	Name   string       `json:"name,omitempty"`
	Bid    *engine.Bid  `json:"bid,omitempty"`
	Card   *engine.Card `json:"card,omitempty"`
	Points int          `json:"points,omitempty"`
	Text   string       `json:"text,omitempty"`
	Emoji  string       `json:"emoji,omitempty"`
	Kind   string       `json:"kind,omitempty"`
	To     *engine.Seat `json:"to,omitempty"`
}

type ServerMessage struct {
	Type   string        `json:"type"`
	Room   string        `json:"room,omitempty"`
	Seat   *engine.Seat  `json:"seat,omitempty"`
	State  *RoomSnapshot `json:"state,omitempty"`
	Reason string        `json:"reason,omitempty"`
	Text   string        `json:"text,omitempty"`
	Emoji  string        `json:"emoji,omitempty"`
	Kind   string        `json:"kind,omitempty"`
	From   *engine.Seat  `json:"from,omitempty"`
	To     *engine.Seat  `json:"to,omitempty"`
}

// PlayerInfo mirrors a seated profile in snapshots and history exports.
type PlayerInfo struct {
	Identity  string      `json:"identity"`
	Name      string      `json:"name"`
	Seat      engine.Seat `json:"seat"`
	Host      bool        `json:"host"`
	Bot       bool        `json:"bot"`
	Connected bool        `json:"connected"`
}

// RoomSnapshot is the canonical full-state snapshot broadcast on every
// committed mutation.
type RoomSnapshot struct {
	Version int          `json:"version"`
	Game    engine.State `json:"game"`
	Players []PlayerInfo `json:"players"`
}
