package engine

import (
	"math/rand"
	"testing"
)

func TestDealHandsPartitionsDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	hands := DealHands(rng, 0)

	seen := map[string]bool{}
	for s := range hands {
		if len(hands[s]) != 13 {
			t.Fatalf("seat %v: got %d cards, want 13", Seat(s), len(hands[s]))
		}
		for _, c := range hands[s] {
			if seen[c.ID] {
				t.Fatalf("card %s dealt twice", c.ID)
			}
			seen[c.ID] = true
		}
	}
	if len(seen) != 52 {
		t.Fatalf("got %d distinct cards, want 52", len(seen))
	}
}

func TestDealHandsSortsEachHand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hands := DealHands(rng, 0)

	for s := range hands {
		h := hands[s]
		for i := 1; i < len(h); i++ {
			prev, cur := h[i-1], h[i]
			if cur.Suit > prev.Suit || (cur.Suit == prev.Suit && cur.Rank > prev.Rank) {
				t.Fatalf("seat %v: %s before %s breaks sort order", Seat(s), prev.ID, cur.ID)
			}
		}
	}
}

func TestDealHandsHonorsHCPLimit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		hands := DealHands(rng, 16)
		for s := range hands {
			if pts := HCP(hands[s]); pts > 16 {
				t.Fatalf("seat %v holds %d HCP, limit 16", Seat(s), pts)
			}
		}
	}
}

func TestHCP(t *testing.T) {
	hand := []Card{
		NewCard(Spades, Ace),
		NewCard(Hearts, King),
		NewCard(Diamonds, Queen),
		NewCard(Clubs, Jack),
		NewCard(Clubs, Two),
	}
	if got := HCP(hand); got != 10 {
		t.Fatalf("HCP = %d, want 10", got)
	}
	if got := HCP(nil); got != 0 {
		t.Fatalf("HCP(nil) = %d, want 0", got)
	}
}

func TestVulnerabilityCycle(t *testing.T) {
	cases := []struct {
		deal int
		want [2]bool
	}{
		{0, [2]bool{false, false}},
		{1, [2]bool{true, false}},
		{2, [2]bool{false, true}},
		{3, [2]bool{true, true}},
		{4, [2]bool{false, false}},
	}
	for _, tc := range cases {
		if got := VulnerabilityFor(tc.deal); got != tc.want {
			t.Errorf("deal %d: got %v, want %v", tc.deal, got, tc.want)
		}
	}
}

func TestCardIDs(t *testing.T) {
	cases := []struct {
		card Card
		want string
	}{
		{NewCard(Spades, Ace), "SA"},
		{NewCard(Hearts, Ten), "H10"},
		{NewCard(Diamonds, Two), "D2"},
		{NewCard(Clubs, Queen), "CQ"},
	}
	for _, tc := range cases {
		if tc.card.ID != tc.want {
			t.Errorf("got ID %q, want %q", tc.card.ID, tc.want)
		}
	}
}
