package engine

import "math/rand"

// DealHands shuffles a fresh deck and round-robins it to the four seats in
// rotation order, sorting each hand. When maxHCP > 0 the deal is repeated
// until no hand exceeds that high-card point count; this is the only place
// the HCP limit is applied.
func DealHands(rng *rand.Rand, maxHCP int) [NumSeats][]Card {
	for {
		deck := NewDeck()
		Shuffle(deck, rng)

		var hands [NumSeats][]Card
		for i, c := range deck {
			seat := Seat(i % NumSeats)
			hands[seat] = append(hands[seat], c)
		}
		for s := range hands {
			SortHand(hands[s])
		}

		if maxHCP > 0 {
			over := false
			for s := range hands {
				if HCP(hands[s]) > maxHCP {
					over = true
					break
				}
			}
			if over {
				continue
			}
		}
		return hands
	}
}

// VulnerabilityFor cycles the per-side vulnerability flags by deal number:
// none, NS, EW, both. The flags are tracked for display and history only.
func VulnerabilityFor(dealNumber int) [2]bool {
	switch dealNumber % 4 {
	case 1:
		return [2]bool{true, false}
	case 2:
		return [2]bool{false, true}
	case 3:
		return [2]bool{true, true}
	default:
		return [2]bool{false, false}
	}
}
