package room

import (
	"bridgetable/internal/engine"
	"bridgetable/pkg/types"
)

// Action is the closed union of state-mutating commands. The ws layer
// converts wire messages into these; adding a kind is a compile-checked
// change.
type Action interface{ isAction() }

type BidAction struct{ Bid engine.Bid }
type PlayAction struct{ Card engine.Card }
type ReadyAction struct{}
type SurrenderAction struct{}
type DealAction struct{}
type RestartAction struct{}
type AddBotAction struct{}
type RedealRequestAction struct{ Points int }

func (BidAction) isAction()           {}
func (PlayAction) isAction()          {}
func (ReadyAction) isAction()         {}
func (SurrenderAction) isAction()     {}
func (DealAction) isAction()          {}
func (RestartAction) isAction()       {}
func (AddBotAction) isAction()        {}
func (RedealRequestAction) isAction() {}

// Msg is the closed union of messages a room actor accepts on its inbox.
type Msg interface{ isRoomMsg() }

// Join seats a new identity or rebinds a reconnecting one.
type Join struct {
	Identity string
	Name     string
	Outbox   chan types.ServerMessage
	Reply    chan JoinResult
}

// Leave removes a profile explicitly (distinct from a dropped connection).
type Leave struct{ Identity string }

// Disconnect marks a profile disconnected when its connection dies. Outbox
// identifies the connection so a stale teardown cannot unbind a newer one.
type Disconnect struct {
	Identity string
	Outbox   chan types.ServerMessage
}

// FromClient carries a state-mutating action from a connected identity.
type FromClient struct {
	Identity string
	Act      Action
}

// Relay forwards a non-state event verbatim to all other participants.
type Relay struct {
	Identity string
	Event    types.ServerMessage
}

// GetView reflects internal state without data races (tests, lobby stats).
type GetView struct{ Reply chan View }

type Shutdown struct{}

// timerFired is a deferred continuation owned by the room: dealing
// auto-advance, redeal ticks, bot delay, idle reclaim. gen drops stale
// fires after a cancel or reset.
type timerFired struct {
	kind timerKind
	gen  uint64
}

func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (Disconnect) isRoomMsg() {}
func (FromClient) isRoomMsg() {}
func (Relay) isRoomMsg()      {}
func (GetView) isRoomMsg()    {}
func (Shutdown) isRoomMsg()   {}
func (timerFired) isRoomMsg() {}

type JoinResult struct {
	OK       bool
	Reason   string
	Seat     engine.Seat
	Snapshot types.RoomSnapshot
}

// View is a read-only reflection of room internals.
type View struct {
	ID              string
	Version         int
	Phase           engine.Phase
	Players         []types.PlayerInfo
	ConnectedHumans int
	RedealPending   bool
	Game            engine.State
}
