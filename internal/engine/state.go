package engine

type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseIdle      Phase = "idle"
	PhaseDealing   Phase = "dealing"
	PhaseReviewing Phase = "reviewing"
	PhaseBidding   Phase = "bidding"
	PhasePlaying   Phase = "playing"
	PhaseFinished  Phase = "finished"
)

// State is the canonical game state for one room. It is only ever replaced
// wholesale: reducers take a State by value and return a new one together
// with an applied flag. Rule violations (wrong seat, illegal bid or card)
// return the input unchanged with applied=false — a silent no-op, never an
// error, because the authority resubmits idempotently.
type State struct {
	Phase        Phase            `json:"phase"`
	Hands        [NumSeats][]Card `json:"hands"`
	Dealer       Seat             `json:"dealer"`
	SeatToAct    Seat             `json:"seatToAct"`
	Vulnerable   [2]bool          `json:"vulnerable"`
	Auction      []Bid            `json:"auction"`
	LastBid      *Bid             `json:"lastBid,omitempty"`
	Contract     *Contract        `json:"contract,omitempty"`
	Occupied     [NumSeats]bool   `json:"occupied"`
	Ready        [NumSeats]bool   `json:"ready"`
	CurrentTrick []TrickPlay      `json:"currentTrick"`
	TrickCounts  [NumSeats]int    `json:"trickCounts"`
	PlayLog      []TrickRecord    `json:"playLog"`
	Winner       *Side            `json:"winner,omitempty"`
	Surrendered  bool             `json:"surrendered"`
}

func NewState() State {
	return State{Phase: PhaseLobby}
}

// Clone deep-copies every slice and pointer field so a committed state is
// never aliased by the state it was derived from.
func (s State) Clone() State {
	next := s
	for i := range s.Hands {
		next.Hands[i] = append([]Card(nil), s.Hands[i]...)
	}
	next.Auction = append([]Bid(nil), s.Auction...)
	next.CurrentTrick = append([]TrickPlay(nil), s.CurrentTrick...)
	next.PlayLog = append([]TrickRecord(nil), s.PlayLog...)
	if s.LastBid != nil {
		lb := *s.LastBid
		next.LastBid = &lb
	}
	if s.Contract != nil {
		c := *s.Contract
		next.Contract = &c
	}
	if s.Winner != nil {
		w := *s.Winner
		next.Winner = &w
	}
	return next
}

// StartDeal seeds a fresh hand: all auction/trick/score fields reset, the
// dealer opens the bidding once the reviewing phase completes.
func StartDeal(s State, dealer Seat, hands [NumSeats][]Card, vulnerable [2]bool) State {
	next := s.Clone()
	next.Phase = PhaseDealing
	next.Hands = hands
	next.Dealer = dealer
	next.SeatToAct = dealer
	next.Vulnerable = vulnerable
	next.Auction = nil
	next.LastBid = nil
	next.Contract = nil
	next.Ready = [NumSeats]bool{}
	next.CurrentTrick = nil
	next.TrickCounts = [NumSeats]int{}
	next.PlayLog = nil
	next.Winner = nil
	next.Surrendered = false
	return next
}

// AdvanceDealing moves the transient dealing phase to reviewing. Driven by
// the authority's timer, never by player input.
func AdvanceDealing(s State) (State, bool) {
	if s.Phase != PhaseDealing {
		return s, false
	}
	next := s.Clone()
	next.Phase = PhaseReviewing
	return next, true
}

// SubmitReady records a seat as ready during reviewing. Once every occupied
// seat is ready the auction opens with the dealer to act.
func SubmitReady(s State, seat Seat) (State, bool) {
	if s.Phase != PhaseReviewing || !seat.Valid() || !s.Occupied[seat] || s.Ready[seat] {
		return s, false
	}
	next := s.Clone()
	next.Ready[seat] = true

	allReady := true
	for i := range next.Occupied {
		if next.Occupied[i] && !next.Ready[i] {
			allReady = false
			break
		}
	}
	if allReady {
		next.Phase = PhaseBidding
		next.SeatToAct = next.Dealer
	}
	return next, true
}

// SubmitSurrender ends the hand immediately with the opposing side winning.
func SubmitSurrender(s State, seat Seat) (State, bool) {
	if s.Phase != PhasePlaying || !seat.Valid() || !s.Occupied[seat] {
		return s, false
	}
	next := s.Clone()
	w := seat.Side().Other()
	next.Winner = &w
	next.Surrendered = true
	next.Phase = PhaseFinished
	return next, true
}

// Reset returns the room to its initial state while keeping seat occupancy;
// occupants' profiles survive an idle reclaim, only the game state resets.
func Reset(s State) State {
	next := NewState()
	next.Occupied = s.Occupied
	for i := range next.Occupied {
		if next.Occupied[i] {
			next.Phase = PhaseIdle
			break
		}
	}
	return next
}

// SetOccupied marks a seat occupied or vacant. A room in the lobby phase
// becomes idle once its first seat fills; a room that empties resets.
func SetOccupied(s State, seat Seat, occupied bool) State {
	next := s.Clone()
	next.Occupied[seat] = occupied
	next.Ready[seat] = false
	if occupied && next.Phase == PhaseLobby {
		next.Phase = PhaseIdle
	}
	if !occupied {
		empty := true
		for i := range next.Occupied {
			if next.Occupied[i] {
				empty = false
				break
			}
		}
		if empty {
			next = NewState()
		}
	}
	return next
}

// ClearReady drops a seat from the ready set (reconnection semantics).
func ClearReady(s State, seat Seat) (State, bool) {
	if !seat.Valid() || !s.Ready[seat] {
		return s, false
	}
	next := s.Clone()
	next.Ready[seat] = false
	return next, true
}

// DeclarerSideTricks sums the trick counts of the declaring partnership.
func (s State) DeclarerSideTricks() int {
	if s.Contract == nil {
		return 0
	}
	return s.TrickCounts[s.Contract.Declarer] + s.TrickCounts[s.Contract.Declarer.Partner()]
}

// finishHand computes the winning side and transitions to finished. Both
// hand-ending paths in SubmitPlay call this, so they cannot diverge.
func (s *State) finishHand() {
	if s.Contract != nil {
		declTarget := 6 + s.Contract.Level
		defTarget := 14 - declTarget
		declSide := s.Contract.Declarer.Side()

		declTricks := s.DeclarerSideTricks()
		defTricks := 0
		for _, seat := range declSide.Other().Seats() {
			defTricks += s.TrickCounts[seat]
		}

		if declTricks >= declTarget {
			w := declSide
			s.Winner = &w
		} else if defTricks >= defTarget {
			w := declSide.Other()
			s.Winner = &w
		}
	}
	s.Phase = PhaseFinished
}
