package engine

const (
	TrickSize     = 4
	TricksPerHand = 13
)

// TrickPlay is one card played into the current trick.
type TrickPlay struct {
	Seat Seat `json:"seat"`
	Card Card `json:"card"`
}

// TrickRecord is an append-only play-log entry for a scored trick.
type TrickRecord struct {
	Index  int         `json:"index"`
	Plays  []TrickPlay `json:"plays"`
	Winner Seat        `json:"winner"`
	Leader Seat        `json:"leader"`
}

// IsLegalPlay applies the follow-suit law. A lead (trick empty, or full and
// about to be cleared) is always legal; otherwise the card must match the
// lead suit unless the hand is void in it.
func IsLegalPlay(card Card, hand []Card, trick []TrickPlay) bool {
	if len(trick) == 0 || len(trick) >= TrickSize {
		return true
	}
	lead := trick[0].Card.Suit
	if card.Suit == lead {
		return true
	}
	return !hasSuit(hand, lead)
}

func isTrump(c Card, trump Strain) bool {
	return trump != NoTrump && Suit(trump) == c.Suit
}

// playBeats reports whether a beats b given the lead suit and trump. A
// trump beats any non-trump; within trump or within the lead suit the
// higher rank wins; an off-suit non-trump discard never wins.
func playBeats(a, b Card, lead Suit, trump Strain) bool {
	if isTrump(a, trump) != isTrump(b, trump) {
		return isTrump(a, trump)
	}
	if isTrump(a, trump) {
		return a.Rank > b.Rank
	}
	if (a.Suit == lead) != (b.Suit == lead) {
		return a.Suit == lead
	}
	if a.Suit == lead {
		return a.Rank > b.Rank
	}
	return false
}

func bestPlayIndex(trick []TrickPlay, trump Strain) int {
	best := 0
	for i := 1; i < len(trick); i++ {
		if playBeats(trick[i].Card, trick[best].Card, trick[0].Card.Suit, trump) {
			best = i
		}
	}
	return best
}

// TrickWinner returns the seat holding the winning play. Undefined only for
// an empty trick.
func TrickWinner(trick []TrickPlay, trump Strain) Seat {
	return trick[bestPlayIndex(trick, trump)].Seat
}

// WinningPlay returns the play currently winning a (possibly partial) trick.
func WinningPlay(trick []TrickPlay, trump Strain) TrickPlay {
	return trick[bestPlayIndex(trick, trump)]
}

// scoreCurrentTrick commits the full current trick to the play log and
// hands the lead to its winner.
func (s *State) scoreCurrentTrick(winner Seat) {
	s.TrickCounts[winner]++
	s.PlayLog = append(s.PlayLog, TrickRecord{
		Index:  len(s.PlayLog),
		Plays:  append([]TrickPlay(nil), s.CurrentTrick...),
		Winner: winner,
		Leader: s.CurrentTrick[0].Seat,
	})
	s.CurrentTrick = nil
	s.SeatToAct = winner
}

// playToTrick removes the card from the seat's hand and appends it to the
// current trick. Caller has already validated possession.
func (s *State) playToTrick(seat Seat, card Card) {
	idx := indexOfCard(s.Hands[seat], card)
	s.Hands[seat] = append(s.Hands[seat][:idx], s.Hands[seat][idx+1:]...)
	s.CurrentTrick = append(s.CurrentTrick, TrickPlay{Seat: seat, Card: card})
}

// SubmitPlay applies one card play.
//
// When the current trick already holds four plays the submitted card is not
// appended to it: the prior trick is scored first, the acting seat must be
// that trick's winner, and — if scoring it brings the hand to thirteen
// tricks — the hand finishes without consuming the new card. Otherwise the
// trick is cleared and the card leads a fresh one.
//
// A normal play requires the acting seat to hold the turn; the card moves
// from hand to trick. Appending the fourth card of the thirteenth trick
// scores it in the same call and finishes the hand. Both hand-ending paths
// share finishHand, so the winning side is computed identically.
func SubmitPlay(s State, seat Seat, card Card) (State, bool) {
	if s.Phase != PhasePlaying || s.Contract == nil || !seat.Valid() {
		return s, false
	}
	trump := s.Contract.Strain

	if len(s.CurrentTrick) >= TrickSize {
		winner := TrickWinner(s.CurrentTrick, trump)
		if seat != winner {
			return s, false
		}
		next := s.Clone()
		next.scoreCurrentTrick(winner)
		if len(next.PlayLog) == TricksPerHand {
			next.finishHand()
			return next, true
		}
		if indexOfCard(next.Hands[seat], card) < 0 {
			return s, false
		}
		next.playToTrick(seat, card)
		next.SeatToAct = seat.Next()
		return next, true
	}

	if seat != s.SeatToAct {
		return s, false
	}
	if indexOfCard(s.Hands[seat], card) < 0 {
		return s, false
	}
	if !IsLegalPlay(card, s.Hands[seat], s.CurrentTrick) {
		return s, false
	}

	next := s.Clone()
	next.playToTrick(seat, card)
	if len(next.CurrentTrick) == TrickSize {
		winner := TrickWinner(next.CurrentTrick, trump)
		next.SeatToAct = winner
		if len(next.PlayLog)+1 == TricksPerHand {
			next.scoreCurrentTrick(winner)
			next.finishHand()
		}
	} else {
		next.SeatToAct = next.SeatToAct.Next()
	}
	return next, true
}
