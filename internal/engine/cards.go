package engine

import (
	"math/rand"
	"sort"
	"strconv"
)

type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Strain is a bid denomination: the four suits plus no-trump. The suit
// strains share numeric values with Suit so a contract strain converts
// directly to its trump suit.
type Strain int

const (
	StrainClubs Strain = iota
	StrainDiamonds
	StrainHearts
	StrainSpades
	NoTrump
)

type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Card is one of the 52 suit/rank combinations. ID is a stable short tag
// ("SA", "H10") used by clients and in hand-history exports.
type Card struct {
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
	ID   string `json:"id"`
}

var suitLetters = [4]string{"C", "D", "H", "S"}

func rankToken(r Rank) string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return strconv.Itoa(int(r))
	}
}

func NewCard(s Suit, r Rank) Card {
	return Card{Suit: s, Rank: r, ID: suitLetters[s] + rankToken(r)}
}

// NewDeck returns the full 52-card deck, one card per suit/rank combination.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			deck = append(deck, NewCard(s, r))
		}
	}
	return deck
}

// Shuffle permutes the deck in place using the supplied source.
func Shuffle(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// SortHand orders a hand suit-descending (spades high) then rank-descending.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return hand[i].Suit > hand[j].Suit
		}
		return hand[i].Rank > hand[j].Rank
	})
}

// HCP is the standard high-card point count: A=4, K=3, Q=2, J=1.
func HCP(hand []Card) int {
	pts := 0
	for _, c := range hand {
		switch c.Rank {
		case Ace:
			pts += 4
		case King:
			pts += 3
		case Queen:
			pts += 2
		case Jack:
			pts++
		}
	}
	return pts
}

func hasSuit(hand []Card, s Suit) bool {
	for _, c := range hand {
		if c.Suit == s {
			return true
		}
	}
	return false
}

func indexOfCard(hand []Card, target Card) int {
	for i, c := range hand {
		if c.Suit == target.Suit && c.Rank == target.Rank {
			return i
		}
	}
	return -1
}
