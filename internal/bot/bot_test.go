package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bridgetable/internal/engine"
)

func playingState(contract engine.Contract, hands [engine.NumSeats][]engine.Card) engine.State {
	s := engine.NewState()
	s.Phase = engine.PhasePlaying
	for i := range s.Occupied {
		s.Occupied[i] = true
	}
	s.Hands = hands
	c := contract
	s.Contract = &c
	s.SeatToAct = contract.Declarer.Next()
	return s
}

func cards(ids ...string) []engine.Card {
	deck := engine.NewDeck()
	byID := make(map[string]engine.Card, len(deck))
	for _, c := range deck {
		byID[c.ID] = c
	}
	out := make([]engine.Card, len(ids))
	for i, id := range ids {
		c, ok := byID[id]
		if !ok {
			panic("unknown card " + id)
		}
		out[i] = c
	}
	return out
}

func TestChooseBidAlwaysPasses(t *testing.T) {
	s := engine.NewState()
	s.Phase = engine.PhaseBidding
	b := ChooseBid(s, engine.SeatEast)
	require.True(t, b.Pass)
	require.Equal(t, engine.SeatEast, b.Seat)
}

func TestNextReadySeatOneAtATime(t *testing.T) {
	s := engine.NewState()
	s.Phase = engine.PhaseReviewing
	s.Occupied = [engine.NumSeats]bool{true, true, true, true}
	isBot := func(seat engine.Seat) bool {
		return seat == engine.SeatEast || seat == engine.SeatWest
	}

	seat, ok := NextReadySeat(s, isBot)
	require.True(t, ok)
	require.Equal(t, engine.SeatEast, seat)

	s.Ready[engine.SeatEast] = true
	seat, ok = NextReadySeat(s, isBot)
	require.True(t, ok)
	require.Equal(t, engine.SeatWest, seat)

	s.Ready[engine.SeatWest] = true
	_, ok = NextReadySeat(s, isBot)
	require.False(t, ok)
}

func TestChooseLead(t *testing.T) {
	cases := []struct {
		name     string
		contract engine.Contract
		seat     engine.Seat
		hand     []engine.Card
		want     string
	}{
		{
			name:     "attacker leads from trumps",
			contract: engine.Contract{Level: 1, Strain: engine.StrainSpades, Declarer: engine.SeatNorth},
			seat:     engine.SeatNorth,
			hand:     cards("HA", "S4", "S2"),
			want:     "S2",
		},
		{
			name:     "defender avoids trumps",
			contract: engine.Contract{Level: 1, Strain: engine.StrainSpades, Declarer: engine.SeatNorth},
			seat:     engine.SeatEast,
			hand:     cards("SA", "H4", "H2"),
			want:     "H2",
		},
		{
			name:     "high card ten or better is led high",
			contract: engine.Contract{Level: 1, Strain: engine.StrainSpades, Declarer: engine.SeatNorth},
			seat:     engine.SeatEast,
			hand:     cards("HQ", "H4", "D8"),
			want:     "HQ",
		},
		{
			name:     "defender falls back to trumps when void elsewhere",
			contract: engine.Contract{Level: 1, Strain: engine.StrainSpades, Declarer: engine.SeatNorth},
			seat:     engine.SeatEast,
			hand:     cards("S9", "S3"),
			want:     "S3",
		},
		{
			name:     "no-trump lead ignores sides",
			contract: engine.Contract{Level: 1, Strain: engine.NoTrump, Declarer: engine.SeatNorth},
			seat:     engine.SeatSouth,
			hand:     cards("CK", "C5", "D2"),
			want:     "CK",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hands [engine.NumSeats][]engine.Card
			hands[tc.seat] = tc.hand
			s := playingState(tc.contract, hands)
			s.SeatToAct = tc.seat

			card, ok := ChoosePlay(s, tc.seat)
			require.True(t, ok)
			require.Equal(t, tc.want, card.ID)
		})
	}
}

func TestChooseFollow(t *testing.T) {
	contract := engine.Contract{Level: 1, Strain: engine.StrainSpades, Declarer: engine.SeatNorth}

	cases := []struct {
		name  string
		trick []engine.TrickPlay
		hand  []engine.Card
		want  string
	}{
		{
			name:  "beat the winner with the highest follower",
			trick: []engine.TrickPlay{{Seat: engine.SeatNorth, Card: cards("H9")[0]}},
			hand:  cards("HK", "HJ", "H2"),
			want:  "HK",
		},
		{
			name:  "cannot beat the winner, discard lowest",
			trick: []engine.TrickPlay{{Seat: engine.SeatNorth, Card: cards("HA")[0]}},
			hand:  cards("HK", "H7", "H2"),
			want:  "H2",
		},
		{
			name:  "trump lead contested among trumps",
			trick: []engine.TrickPlay{{Seat: engine.SeatNorth, Card: cards("S8")[0]}},
			hand:  cards("SQ", "S4"),
			want:  "SQ",
		},
		{
			name:  "trump lead unbeatable, lowest trump",
			trick: []engine.TrickPlay{{Seat: engine.SeatNorth, Card: cards("SA")[0]}},
			hand:  cards("SQ", "S4"),
			want:  "S4",
		},
		{
			name:  "void in lead suit ruffs with lowest trump",
			trick: []engine.TrickPlay{{Seat: engine.SeatNorth, Card: cards("H9")[0]}},
			hand:  cards("SK", "S3", "D7"),
			want:  "S3",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hands [engine.NumSeats][]engine.Card
			hands[engine.SeatEast] = tc.hand
			s := playingState(contract, hands)
			s.CurrentTrick = tc.trick
			s.SeatToAct = engine.SeatEast

			card, ok := ChoosePlay(s, engine.SeatEast)
			require.True(t, ok)
			require.Equal(t, tc.want, card.ID)
		})
	}
}

func TestChoosePlayOnlyReturnsLegalCards(t *testing.T) {
	contract := engine.Contract{Level: 1, Strain: engine.NoTrump, Declarer: engine.SeatNorth}
	var hands [engine.NumSeats][]engine.Card
	hands[engine.SeatEast] = cards("H5", "C9", "C2")
	s := playingState(contract, hands)
	s.CurrentTrick = []engine.TrickPlay{{Seat: engine.SeatNorth, Card: cards("H9")[0]}}
	s.SeatToAct = engine.SeatEast

	card, ok := ChoosePlay(s, engine.SeatEast)
	require.True(t, ok)
	require.Equal(t, "H5", card.ID, "must follow suit while holding it")
}
