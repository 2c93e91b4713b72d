package engine

import "testing"

// biddingState returns a four-seat room mid-auction with the given dealer
// to act first.
func biddingState(dealer Seat) State {
	s := NewState()
	s.Phase = PhaseBidding
	s.Dealer = dealer
	s.SeatToAct = dealer
	for i := range s.Occupied {
		s.Occupied[i] = true
	}
	return s
}

func pass(seat Seat) Bid { return Bid{Seat: seat, Pass: true} }

func bid(seat Seat, level int, strain Strain) Bid {
	return Bid{Seat: seat, Level: level, Strain: strain}
}

// run applies a sequence of bids, failing the test if any is rejected.
func runAuction(t *testing.T, s State, bids ...Bid) State {
	t.Helper()
	for i, b := range bids {
		next, ok := SubmitBid(s, b)
		if !ok {
			t.Fatalf("bid %d (%+v) rejected", i, b)
		}
		s = next
	}
	return s
}

func TestIsValidBid(t *testing.T) {
	opened := biddingState(SeatNorth)
	opened.LastBid = &Bid{Seat: SeatNorth, Level: 1, Strain: StrainHearts}

	cases := []struct {
		name  string
		state State
		bid   Bid
		want  bool
	}{
		{"pass always legal", opened, pass(SeatEast), true},
		{"first real bid", biddingState(SeatNorth), bid(SeatNorth, 1, StrainClubs), true},
		{"higher level", opened, bid(SeatEast, 2, StrainClubs), true},
		{"higher strain same level", opened, bid(SeatEast, 1, StrainSpades), true},
		{"no-trump tops suits", opened, bid(SeatEast, 1, NoTrump), true},
		{"equal bid rejected", opened, bid(SeatEast, 1, StrainHearts), false},
		{"lower strain same level", opened, bid(SeatEast, 1, StrainDiamonds), false},
		{"lower level", opened, bid(SeatEast, 0, StrainSpades), false},
		{"level above seven", biddingState(SeatNorth), bid(SeatNorth, 8, StrainClubs), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidBid(tc.state, tc.bid); got != tc.want {
				t.Fatalf("IsValidBid = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAuctionCompletesOnThreePasses(t *testing.T) {
	s := runAuction(t, biddingState(SeatNorth),
		bid(SeatNorth, 1, StrainSpades),
		pass(SeatEast), pass(SeatSouth), pass(SeatWest),
	)

	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want playing", s.Phase)
	}
	if s.Contract == nil {
		t.Fatal("contract not set")
	}
	want := Contract{Level: 1, Strain: StrainSpades, Declarer: SeatNorth}
	if *s.Contract != want {
		t.Fatalf("contract = %+v, want %+v", *s.Contract, want)
	}
	if s.SeatToAct != SeatEast {
		t.Fatalf("opening lead seat = %v, want east", s.SeatToAct)
	}
}

func TestDeclarerIsFirstOfPairToNameStrain(t *testing.T) {
	// North names hearts first; South's raise wins the auction, but North
	// declares.
	s := runAuction(t, biddingState(SeatNorth),
		bid(SeatNorth, 1, StrainHearts),
		pass(SeatEast),
		bid(SeatSouth, 2, StrainHearts),
		pass(SeatWest), pass(SeatNorth), pass(SeatEast),
	)

	if s.Contract == nil || s.Contract.Declarer != SeatNorth {
		t.Fatalf("contract = %+v, want declarer north", s.Contract)
	}
	if s.Contract.Level != 2 || s.Contract.Strain != StrainHearts {
		t.Fatalf("contract = %+v, want 2H", s.Contract)
	}
	if s.SeatToAct != SeatEast {
		t.Fatalf("opening lead seat = %v, want east", s.SeatToAct)
	}
}

func TestOpponentNamingStrainDoesNotDeclareForOtherPair(t *testing.T) {
	// East names spades first, but the winning spade bid belongs to the
	// north/south pair; declarer search is restricted to the winning pair.
	s := runAuction(t, biddingState(SeatNorth),
		bid(SeatNorth, 1, StrainClubs),
		bid(SeatEast, 1, StrainSpades),
		bid(SeatSouth, 2, StrainSpades),
		pass(SeatWest), pass(SeatNorth), pass(SeatEast),
	)

	if s.Contract == nil || s.Contract.Declarer != SeatSouth {
		t.Fatalf("contract = %+v, want declarer south", s.Contract)
	}
}

func TestPassedOutAuctionReturnsToDealer(t *testing.T) {
	s := runAuction(t, biddingState(SeatEast),
		pass(SeatEast), pass(SeatSouth), pass(SeatWest), pass(SeatNorth),
	)

	if s.Phase != PhaseBidding {
		t.Fatalf("phase = %v, want bidding to continue", s.Phase)
	}
	if s.SeatToAct != SeatEast {
		t.Fatalf("seat to act = %v, want dealer east", s.SeatToAct)
	}
	if s.Contract != nil {
		t.Fatalf("contract = %+v, want none", s.Contract)
	}

	// The dealer can still open normally after the reset.
	s = runAuction(t, s, bid(SeatEast, 1, NoTrump))
	if s.SeatToAct != SeatSouth {
		t.Fatalf("seat to act = %v, want south", s.SeatToAct)
	}
}

func TestSubmitBidSilentNoOps(t *testing.T) {
	base := biddingState(SeatNorth)

	cases := []struct {
		name  string
		state State
		bid   Bid
	}{
		{"out of turn", base, bid(SeatEast, 1, StrainClubs)},
		{"wrong phase", NewState(), bid(SeatNorth, 1, StrainClubs)},
		{"insufficient bid", func() State {
			s := runAuction(t, base, bid(SeatNorth, 2, StrainHearts))
			return s
		}(), bid(SeatEast, 1, StrainSpades)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, ok := SubmitBid(tc.state, tc.bid)
			if ok {
				t.Fatal("bid applied, want silent no-op")
			}
			if len(next.Auction) != len(tc.state.Auction) {
				t.Fatal("auction mutated by rejected bid")
			}
		})
	}
}
