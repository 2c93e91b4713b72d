// Package bot selects actions for automated seats. Decisions are pure
// functions of the canonical state; the room submits them through the same
// reducer path as human actions, with no validation bypass.
package bot

import "bridgetable/internal/engine"

// NextReadySeat returns one bot seat that has not readied up yet. The room
// marks a single seat per invocation, spacing them out with its bot delay.
func NextReadySeat(s engine.State, isBot func(engine.Seat) bool) (engine.Seat, bool) {
	for seat := engine.Seat(0); seat < engine.NumSeats; seat++ {
		if s.Occupied[seat] && isBot(seat) && !s.Ready[seat] {
			return seat, true
		}
	}
	return 0, false
}

// ChooseBid always passes. Bots carry no bidding intelligence.
func ChooseBid(_ engine.State, seat engine.Seat) engine.Bid {
	return engine.Bid{Seat: seat, Pass: true}
}

// ChoosePlay picks a card for the bot seat per the fixed heuristic. It
// returns false only when the seat has no cards, which a conforming caller
// never hits.
func ChoosePlay(s engine.State, seat engine.Seat) (engine.Card, bool) {
	hand := s.Hands[seat]
	if len(hand) == 0 || s.Contract == nil {
		return engine.Card{}, false
	}
	trump := s.Contract.Strain

	legal := make([]engine.Card, 0, len(hand))
	for _, c := range hand {
		if engine.IsLegalPlay(c, hand, s.CurrentTrick) {
			legal = append(legal, c)
		}
	}
	if len(legal) == 0 {
		return engine.Card{}, false
	}

	if len(s.CurrentTrick) == 0 || len(s.CurrentTrick) >= engine.TrickSize {
		return chooseLead(s, seat, legal, trump), true
	}
	return chooseFollow(s, legal, trump), true
}

// chooseLead: attackers (declarer's side) prefer trumps, defenders prefer
// non-trumps, each falling back to the other pool when empty. From the
// chosen pool, play the highest card if it is a ten or better, else the
// lowest.
func chooseLead(s engine.State, seat engine.Seat, legal []engine.Card, trump engine.Strain) engine.Card {
	pool := legal
	if trump != engine.NoTrump {
		attacker := seat.Side() == s.Contract.Declarer.Side()
		trumps, plain := splitByTrump(legal, trump)
		if attacker {
			pool = fallback(trumps, plain)
		} else {
			pool = fallback(plain, trumps)
		}
	}
	high := highest(pool)
	if high.Rank >= engine.Ten {
		return high
	}
	return lowest(pool)
}

// chooseFollow: with no legal trump available, beat the current winner with
// the highest legal card if possible, otherwise discard the lowest. With
// legal trumps: over a trump lead apply the same comparison restricted to
// trumps; when ruffing a non-trump lead, always the lowest trump.
func chooseFollow(s engine.State, legal []engine.Card, trump engine.Strain) engine.Card {
	winning := engine.WinningPlay(s.CurrentTrick, trump).Card
	trumps, _ := splitByTrump(legal, trump)

	if len(trumps) == 0 {
		if highest(legal).Rank < winning.Rank {
			return lowest(legal)
		}
		return highest(legal)
	}

	lead := s.CurrentTrick[0].Card
	if engine.Suit(trump) == lead.Suit {
		if highest(trumps).Rank < winning.Rank {
			return lowest(trumps)
		}
		return highest(trumps)
	}
	return lowest(trumps)
}

func splitByTrump(cards []engine.Card, trump engine.Strain) (trumps, plain []engine.Card) {
	if trump == engine.NoTrump {
		return nil, cards
	}
	for _, c := range cards {
		if c.Suit == engine.Suit(trump) {
			trumps = append(trumps, c)
		} else {
			plain = append(plain, c)
		}
	}
	return trumps, plain
}

func fallback(preferred, other []engine.Card) []engine.Card {
	if len(preferred) > 0 {
		return preferred
	}
	return other
}

func highest(cards []engine.Card) engine.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank > best.Rank {
			best = c
		}
	}
	return best
}

func lowest(cards []engine.Card) engine.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank < best.Rank {
			best = c
		}
	}
	return best
}
