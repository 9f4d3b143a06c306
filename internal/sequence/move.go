package sequence

import "errors"

var (
	ErrOutOfBounds    = errors.New("cell is out of bounds")
	ErrCornerCell     = errors.New("corner cells cannot be played")
	ErrNoMatchingCard = errors.New("no card in hand can be played on the cell")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrCellLocked     = errors.New("cell is part of a sequence")
)

// FindPlayableCard returns the index in hand of the card team would use on
// (row, col). An exact match beats a jack even when the jack comes first.
func FindPlayableCard(b *Board, team Team, hand Hand, row, col int) (int, error) {
	if !InBounds(row, col) {
		return -1, ErrOutOfBounds
	}
	printed, ok := CardAt(row, col)
	if !ok {
		return -1, ErrCornerCell
	}

	cell := b[row][col]
	if !cell.Occupied() {
		jack := -1
		for i, card := range hand {
			if card.ID == printed.ID {
				return i, nil
			}
			if jack < 0 && card.IsDoubleEyedJack() {
				jack = i
			}
		}
		if jack >= 0 {
			return jack, nil
		}
		return -1, ErrNoMatchingCard
	}

	if cell.Team == team {
		return -1, ErrCellOccupied
	}
	if cell.IsPartOfASequence {
		return -1, ErrCellLocked
	}
	for i, card := range hand {
		if card.IsSingleEyedJack() {
			return i, nil
		}
	}
	return -1, ErrCellOccupied
}

// Outcome is the result of an applied move.
type Outcome struct {
	Card         Card
	NextCard     *Card
	Removed      bool
	NewSequences []Bounds
	// Discarded counts cards that left play: dead draws, a used single-eyed
	// jack and the token it removed.
	Discarded int
}

// Play applies team's move on (row, col). On error nothing is mutated.
func Play(b *Board, deck *Deck, hand *Hand, team Team, row, col int) (Outcome, error) {
	i, err := FindPlayableCard(b, team, *hand, row, col)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Card: hand.remove(i)}
	if out.Card.IsSingleEyedJack() {
		b[row][col] = Cell{Team: NoTeam}
		out.Removed = true
		out.Discarded = 2
	} else {
		b[row][col].Team = team
		out.NewSequences = FindNewSequences(b, row, col, team)
		MarkSequences(b, out.NewSequences)
	}

	next, dead := DrawReplacement(b, deck)
	out.Discarded += dead
	if next != nil {
		*hand = append(*hand, *next)
		out.NextCard = next
	}
	return out, nil
}

// DrawReplacement draws the next live card, discarding board cards whose
// printed cells are all occupied. It returns nil once the deck runs out.
func DrawReplacement(b *Board, deck *Deck) (*Card, int) {
	dead := 0
	for len(*deck) > 0 {
		card, _ := deck.Draw()
		if !card.IsJack() && b.isDead(card) {
			dead++
			continue
		}
		return &card, dead
	}
	return nil, dead
}

// Deal draws n cards per hand, round-robin.
func Deal(deck *Deck, hands int, n int) []Hand {
	out := make([]Hand, hands)
	for range n {
		for i := range out {
			card, ok := deck.Draw()
			if !ok {
				return out
			}
			out[i] = append(out[i], card)
		}
	}
	return out
}
