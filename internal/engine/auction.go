package engine

// Bid is a single auction entry: a pass, or a level/strain combination.
type Bid struct {
	Seat   Seat   `json:"seat"`
	Pass   bool   `json:"pass,omitempty"`
	Level  int    `json:"level,omitempty"`
	Strain Strain `json:"strain,omitempty"`
}

// Contract is derived once when the auction completes and is immutable
// until the next deal.
type Contract struct {
	Level    int    `json:"level"`
	Strain   Strain `json:"strain"`
	Declarer Seat   `json:"declarer"`
}

// exceeds reports whether b outranks last under bidding law: level
// ascending, and within a level clubs < diamonds < hearts < spades < NT.
func (b Bid) exceeds(last Bid) bool {
	if b.Level != last.Level {
		return b.Level > last.Level
	}
	return b.Strain > last.Strain
}

// IsValidBid checks a bid against bidding law. A pass is always legal; a
// real bid must be the first of the auction or strictly exceed the last
// real bid. Clients mirror this same rule table when building choices.
func IsValidBid(s State, b Bid) bool {
	if b.Pass {
		return true
	}
	if b.Level < 1 || b.Level > 7 || b.Strain < StrainClubs || b.Strain > NoTrump {
		return false
	}
	if s.LastBid == nil {
		return true
	}
	return b.exceeds(*s.LastBid)
}

// trailingPasses counts the run of consecutive passes at the end of the
// auction.
func trailingPasses(auction []Bid) int {
	n := 0
	for i := len(auction) - 1; i >= 0; i-- {
		if !auction[i].Pass {
			break
		}
		n++
	}
	return n
}

// declarerFor finds the declarer: the first seat of the winning partnership
// to have named the contract strain at any point in the auction. Not
// necessarily the seat that made the winning bid.
func declarerFor(auction []Bid, winning Bid) Seat {
	side := winning.Seat.Side()
	for _, b := range auction {
		if !b.Pass && b.Strain == winning.Strain && b.Seat.Side() == side {
			return b.Seat
		}
	}
	return winning.Seat
}

// SubmitBid appends a bid for the seat to act. On three trailing passes
// behind a real bid the auction completes: the contract is that last real
// bid, the declarer is recomputed from the whole auction, and play opens
// with the seat after declarer.
//
// Four passes with no real bid ever made reset the seat to act to the
// dealer without ending the hand. As written this branch cannot terminate
// the auction; it reproduces the observed behavior of the reference
// deployment.
func SubmitBid(s State, b Bid) (State, bool) {
	if s.Phase != PhaseBidding || b.Seat != s.SeatToAct {
		return s, false
	}
	if !IsValidBid(s, b) {
		return s, false
	}

	next := s.Clone()
	next.Auction = append(next.Auction, b)
	if !b.Pass {
		lb := b
		next.LastBid = &lb
	}

	if next.LastBid != nil && trailingPasses(next.Auction) == 3 {
		declarer := declarerFor(next.Auction, *next.LastBid)
		next.Contract = &Contract{
			Level:    next.LastBid.Level,
			Strain:   next.LastBid.Strain,
			Declarer: declarer,
		}
		next.SeatToAct = declarer.Next()
		next.Phase = PhasePlaying
		return next, true
	}

	if next.LastBid == nil && len(next.Auction) >= NumSeats {
		next.SeatToAct = next.Dealer
		return next, true
	}

	next.SeatToAct = next.SeatToAct.Next()
	return next, true
}
