// Package room implements the per-room replication authority: a goroutine
// owning the canonical game state, applying reducers on behalf of exactly
// one writer at a time and broadcasting full snapshots on every commit.
package room

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"bridgetable/internal/bot"
	"bridgetable/internal/engine"
	"bridgetable/internal/history"
	"bridgetable/pkg/types"
)

type timerKind int

const (
	timerDealing timerKind = iota
	timerRedeal
	timerBot
	timerIdle
	numTimers
)

// Config carries the room identity, timer tuning and injected
// dependencies. Rooms are created once at startup and never destroyed.
type Config struct {
	ID          string
	DealDelay   time.Duration // dealing -> reviewing auto-advance
	BotDelay    time.Duration // pause before a bot action
	RedealTick  time.Duration // interval between redeal countdown ticks
	RedealTicks int           // countdown length
	IdleTimeout time.Duration // reclaim delay for rooms with no connected humans
	MaxDealHCP  int           // 0 disables the deal-time HCP limit

	Log      *zap.SugaredLogger
	Recorder history.Recorder
	Rand     *rand.Rand

	// OnMembership tells the registry which room an identity belongs to,
	// for session rediscovery. Must not block.
	OnMembership func(identity string, joined bool)
}

type player struct {
	identity  string
	name      string
	seat      engine.Seat
	host      bool
	bot       bool
	connected bool
	outbox    chan types.ServerMessage
}

type Room struct {
	cfg   Config
	log   *zap.SugaredLogger
	inbox chan Msg

	state   engine.State
	version int
	players map[string]*player

	dealNum      int
	recordedDeal int

	redealPending   bool
	redealRemaining int
	redealSeat      engine.Seat
	redealPoints    int

	timerGen  [numTimers]uint64
	botArmed  bool
	idleArmed bool

	rng    *rand.Rand
	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, cfg Config) *Room {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.DealDelay == 0 {
		cfg.DealDelay = 2 * time.Second
	}
	if cfg.BotDelay == 0 {
		cfg.BotDelay = time.Second
	}
	if cfg.RedealTick == 0 {
		cfg.RedealTick = time.Second
	}
	if cfg.RedealTicks == 0 {
		cfg.RedealTicks = 5
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 5 * time.Minute
	}

	r := &Room{
		cfg:          cfg,
		log:          cfg.Log.With("room", cfg.ID),
		inbox:        make(chan Msg, 64),
		state:        engine.NewState(),
		players:      make(map[string]*player),
		recordedDeal: -1,
		rng:          cfg.Rand,
		ctx:          ctx,
		cancel:       cancel,
	}
	go r.loop()
	return r
}

func (r *Room) ID() string        { return r.cfg.ID }
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				r.cancelTimer(timerIdle)
				r.handleLeave(msg.Identity)
			case Disconnect:
				r.handleDisconnect(msg)
			case FromClient:
				if p := r.players[msg.Identity]; p != nil {
					r.cancelTimer(timerIdle)
					r.handleAction(p.seat, msg.Act)
				}
			case Relay:
				r.handleRelay(msg)
			case GetView:
				msg.Reply <- r.view()
			case timerFired:
				r.handleTimer(msg)
			case Shutdown:
				r.cancel()
				return
			}
			r.afterDispatch()
		}
	}
}

// --- joining and leaving ---

func (r *Room) handleJoin(m Join) {
	r.cancelTimer(timerIdle)

	if p := r.players[m.Identity]; p != nil {
		// Reconnection: rebind the connection, keep seat and hand, drop the
		// seat from the ready set unconditionally.
		p.outbox = m.Outbox
		p.connected = true
		if m.Name != "" {
			p.name = m.Name
		}
		if next, changed := engine.ClearReady(r.state, p.seat); changed {
			r.state = next
		}
		r.bump()
		m.Reply <- JoinResult{OK: true, Seat: p.seat, Snapshot: r.snapshot()}
		return
	}

	seat, ok := r.lowestFreeSeat()
	if !ok {
		m.Reply <- JoinResult{OK: false, Reason: "room is full"}
		return
	}
	p := &player{
		identity:  m.Identity,
		name:      m.Name,
		seat:      seat,
		host:      len(r.players) == 0,
		connected: true,
		outbox:    m.Outbox,
	}
	if p.name == "" {
		p.name = fmt.Sprintf("Player %d", seat+1)
	}
	r.players[m.Identity] = p
	r.state = engine.SetOccupied(r.state, seat, true)
	r.bump()
	if r.cfg.OnMembership != nil {
		r.cfg.OnMembership(m.Identity, true)
	}
	r.log.Infow("player joined", "identity", m.Identity, "seat", seat, "host", p.host)
	m.Reply <- JoinResult{OK: true, Seat: seat, Snapshot: r.snapshot()}
}

func (r *Room) handleLeave(identity string) {
	p := r.players[identity]
	if p == nil {
		return
	}
	delete(r.players, identity)
	r.state = engine.SetOccupied(r.state, p.seat, false)
	if p.host {
		r.reassignHost()
	}
	if r.cfg.OnMembership != nil {
		r.cfg.OnMembership(identity, false)
	}
	r.log.Infow("player left", "identity", identity, "seat", p.seat)
	r.bump()
}

// reassignHost prefers a connected human, then any human, then any
// remaining seat (bots included); lowest seat wins within a class.
func (r *Room) reassignHost() {
	var best *player
	rank := func(p *player) int {
		switch {
		case !p.bot && p.connected:
			return 0
		case !p.bot:
			return 1
		default:
			return 2
		}
	}
	for _, p := range r.players {
		if best == nil || rank(p) < rank(best) || (rank(p) == rank(best) && p.seat < best.seat) {
			best = p
		}
	}
	if best != nil {
		best.host = true
	}
}

func (r *Room) handleDisconnect(m Disconnect) {
	p := r.players[m.Identity]
	if p == nil {
		return
	}
	// A teardown racing a fresh reconnection must not unbind the new
	// connection.
	if m.Outbox != nil && p.outbox != m.Outbox {
		return
	}
	p.connected = false
	p.outbox = nil
	r.log.Infow("player disconnected", "identity", m.Identity, "seat", p.seat)
	r.bump()
}

func (r *Room) lowestFreeSeat() (engine.Seat, bool) {
	var taken [engine.NumSeats]bool
	for _, p := range r.players {
		taken[p.seat] = true
	}
	for seat := engine.Seat(0); seat < engine.NumSeats; seat++ {
		if !taken[seat] {
			return seat, true
		}
	}
	return 0, false
}

// --- actions ---

func (r *Room) handleAction(seat engine.Seat, act Action) {
	switch a := act.(type) {
	case BidAction:
		bid := a.Bid
		bid.Seat = seat
		r.commitIf(engine.SubmitBid(r.state, bid))
	case PlayAction:
		r.commitIf(engine.SubmitPlay(r.state, seat, a.Card))
	case ReadyAction:
		r.commitIf(engine.SubmitReady(r.state, seat))
	case SurrenderAction:
		r.commitIf(engine.SubmitSurrender(r.state, seat))
	case DealAction, RestartAction:
		if r.state.Phase == engine.PhaseIdle || r.state.Phase == engine.PhaseFinished {
			r.performDeal()
		}
	case AddBotAction:
		r.handleAddBot(seat)
	case RedealRequestAction:
		r.handleRedealRequest(seat, a.Points)
	}
}

func (r *Room) commitIf(next engine.State, applied bool) {
	if !applied {
		return
	}
	r.state = next
	r.bump()
}

func (r *Room) handleAddBot(seat engine.Seat) {
	requester := r.playerAtSeat(seat)
	if requester == nil || !requester.host {
		return
	}
	botSeat, ok := r.lowestFreeSeat()
	if !ok {
		return
	}
	identity := fmt.Sprintf("bot:%s:%d", r.cfg.ID, botSeat)
	r.players[identity] = &player{
		identity: identity,
		name:     fmt.Sprintf("Bot %d", botSeat+1),
		seat:     botSeat,
		bot:      true,
	}
	r.state = engine.SetOccupied(r.state, botSeat, true)
	r.log.Infow("bot seated", "seat", botSeat)
	r.bump()
}

func (r *Room) handleRedealRequest(seat engine.Seat, points int) {
	if r.state.Phase != engine.PhaseReviewing || r.redealPending {
		return
	}
	r.redealPending = true
	r.redealRemaining = r.cfg.RedealTicks
	r.redealSeat = seat
	r.redealPoints = points
	r.broadcastRedealStatus()
	r.arm(timerRedeal, r.cfg.RedealTick)
}

func (r *Room) broadcastRedealStatus() {
	s := r.redealSeat
	r.broadcastEvent(types.ServerMessage{
		Type: types.KindRedealStatus,
		Room: r.cfg.ID,
		Seat: &s,
		Text: fmt.Sprintf("redeal in %d (%d points)", r.redealRemaining, r.redealPoints),
	})
}

// performDeal runs the single authoritative deal pipeline. After a finished
// hand the new dealer is a random member of the losing side; otherwise the
// deal passes to the next seat in rotation.
func (r *Room) performDeal() {
	occupied := 0
	for i := range r.state.Occupied {
		if r.state.Occupied[i] {
			occupied++
		}
	}
	if occupied < engine.NumSeats {
		return
	}

	var dealer engine.Seat
	switch {
	case r.state.Phase == engine.PhaseFinished && r.state.Winner != nil:
		losers := r.state.Winner.Other().Seats()
		dealer = losers[r.rng.Intn(len(losers))]
	case r.dealNum == 0:
		dealer = engine.SeatNorth
	default:
		dealer = r.state.Dealer.Next()
	}

	hands := engine.DealHands(r.rng, r.cfg.MaxDealHCP)
	vulnerable := engine.VulnerabilityFor(r.dealNum)
	r.dealNum++
	r.state = engine.StartDeal(r.state, dealer, hands, vulnerable)
	r.log.Infow("dealt", "deal", r.dealNum, "dealer", dealer)
	r.bump()
	r.arm(timerDealing, r.cfg.DealDelay)
}

// --- relay ---

func (r *Room) handleRelay(m Relay) {
	p := r.players[m.Identity]
	if p == nil {
		return
	}
	from := p.seat
	event := m.Event
	event.Room = r.cfg.ID
	event.From = &from
	for _, other := range r.players {
		if other.identity == m.Identity {
			continue
		}
		r.send(other, event)
	}
}

// --- timers ---

func (r *Room) arm(kind timerKind, d time.Duration) {
	r.timerGen[kind]++
	gen := r.timerGen[kind]
	if kind == timerBot {
		r.botArmed = true
	}
	if kind == timerIdle {
		r.idleArmed = true
	}
	time.AfterFunc(d, func() {
		select {
		case r.inbox <- timerFired{kind: kind, gen: gen}:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) cancelTimer(kind timerKind) {
	r.timerGen[kind]++
	if kind == timerBot {
		r.botArmed = false
	}
	if kind == timerIdle {
		r.idleArmed = false
	}
}

func (r *Room) handleTimer(m timerFired) {
	if m.gen != r.timerGen[m.kind] {
		return // stale fire after cancel or reset
	}
	switch m.kind {
	case timerDealing:
		r.commitIf(engine.AdvanceDealing(r.state))
	case timerRedeal:
		if !r.redealPending {
			return
		}
		r.redealRemaining--
		if r.redealRemaining > 0 {
			r.broadcastRedealStatus()
			r.arm(timerRedeal, r.cfg.RedealTick)
			return
		}
		r.redealPending = false
		r.performDeal()
	case timerBot:
		r.botArmed = false
		r.runBot()
	case timerIdle:
		r.idleArmed = false
		r.reclaim()
	}
}

// runBot injects exactly one bot action through the normal action path.
func (r *Room) runBot() {
	switch r.state.Phase {
	case engine.PhaseReviewing:
		if seat, ok := bot.NextReadySeat(r.state, r.isBotSeat); ok {
			r.handleAction(seat, ReadyAction{})
		}
	case engine.PhaseBidding:
		seat := r.state.SeatToAct
		if r.isBotSeat(seat) {
			r.handleAction(seat, BidAction{Bid: bot.ChooseBid(r.state, seat)})
		}
	case engine.PhasePlaying:
		seat := r.state.SeatToAct
		if r.isBotSeat(seat) {
			if card, ok := bot.ChoosePlay(r.state, seat); ok {
				r.handleAction(seat, PlayAction{Card: card})
			}
		}
	}
}

// reclaim resets the game state of a room that sat with zero connected
// humans for the idle timeout. Profiles are kept; only state resets.
func (r *Room) reclaim() {
	if len(r.players) == 0 || r.connectedHumans() > 0 {
		return
	}
	r.log.Infow("idle reclaim", "players", len(r.players))
	r.state = engine.Reset(r.state)
	r.redealPending = false
	r.cancelTimer(timerDealing)
	r.cancelTimer(timerRedeal)
	r.cancelTimer(timerBot)
	r.bump()
}

// afterDispatch runs once per processed message: records a finished hand,
// schedules the bot engine, and maintains the idle-reclaim countdown.
func (r *Room) afterDispatch() {
	if r.state.Phase == engine.PhaseFinished && r.recordedDeal != r.dealNum {
		r.recordedDeal = r.dealNum
		r.recordHand()
	}

	needBot := false
	switch r.state.Phase {
	case engine.PhaseReviewing:
		_, needBot = bot.NextReadySeat(r.state, r.isBotSeat)
	case engine.PhaseBidding, engine.PhasePlaying:
		needBot = r.isBotSeat(r.state.SeatToAct)
	}
	if needBot && !r.botArmed {
		r.arm(timerBot, r.cfg.BotDelay)
	}

	idle := len(r.players) > 0 && r.connectedHumans() == 0
	if idle && !r.idleArmed {
		r.arm(timerIdle, r.cfg.IdleTimeout)
	} else if !idle && r.idleArmed {
		r.cancelTimer(timerIdle)
	}
}

func (r *Room) recordHand() {
	if r.cfg.Recorder == nil {
		return
	}
	export := history.Export{
		Timestamp:   time.Now().UTC(),
		Room:        r.cfg.ID,
		Players:     r.playerInfos(),
		Contract:    r.state.Contract,
		Auction:     r.state.Auction,
		PlayLog:     r.state.PlayLog,
		TrickCounts: r.state.TrickCounts,
		Winner:      r.state.Winner,
		Surrendered: r.state.Surrendered,
	}
	if err := r.cfg.Recorder.Record(export); err != nil {
		r.log.Errorw("record hand", "err", err)
	}
}

// --- broadcast ---

func (r *Room) bump() {
	r.version++
	snap := r.snapshot()
	msg := types.ServerMessage{Type: types.KindStateUpdate, Room: r.cfg.ID, State: &snap}
	for _, p := range r.players {
		r.send(p, msg)
	}
}

// send delivers without blocking; a participant that cannot keep up is
// treated as disconnected.
func (r *Room) send(p *player, msg types.ServerMessage) {
	if !p.connected || p.outbox == nil {
		return
	}
	select {
	case p.outbox <- msg:
	default:
		r.log.Warnw("dropping slow participant", "identity", p.identity)
		p.connected = false
		p.outbox = nil
	}
}

func (r *Room) broadcastEvent(msg types.ServerMessage) {
	for _, p := range r.players {
		r.send(p, msg)
	}
}

// --- views ---

func (r *Room) isBotSeat(seat engine.Seat) bool {
	p := r.playerAtSeat(seat)
	return p != nil && p.bot
}

func (r *Room) playerAtSeat(seat engine.Seat) *player {
	for _, p := range r.players {
		if p.seat == seat {
			return p
		}
	}
	return nil
}

func (r *Room) connectedHumans() int {
	n := 0
	for _, p := range r.players {
		if !p.bot && p.connected {
			n++
		}
	}
	return n
}

func (r *Room) playerInfos() []types.PlayerInfo {
	infos := make([]types.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, types.PlayerInfo{
			Identity:  p.identity,
			Name:      p.name,
			Seat:      p.seat,
			Host:      p.host,
			Bot:       p.bot,
			Connected: p.connected,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Seat < infos[j].Seat })
	return infos
}

func (r *Room) snapshot() types.RoomSnapshot {
	return types.RoomSnapshot{
		Version: r.version,
		Game:    r.state.Clone(),
		Players: r.playerInfos(),
	}
}

func (r *Room) view() View {
	return View{
		ID:              r.cfg.ID,
		Version:         r.version,
		Phase:           r.state.Phase,
		Players:         r.playerInfos(),
		ConnectedHumans: r.connectedHumans(),
		RedealPending:   r.redealPending,
		Game:            r.state.Clone(),
	}
}
