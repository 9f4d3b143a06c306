// Package sequence defines the board, cards and rules of the Sequence board game.
// It has no external dependencies and never touches I/O: callers own the state
// and serialize access to it.
package sequence

import "math/rand/v2"

type Kind string

const (
	Spades   Kind = "spades"
	Clover   Kind = "clover"
	Hearts   Kind = "hearts"
	Diamonds Kind = "diamonds"
)

// Kinds lists every suit in deck order.
var Kinds = [...]Kind{Spades, Clover, Hearts, Diamonds}

type Rank string

const (
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankAce   Rank = "A"
	RankKing  Rank = "K"
	RankQueen Rank = "Q"

	// SingleEyedJack removes an opposing token that is not part of a sequence.
	SingleEyedJack Rank = "J1"
	// DoubleEyedJack places a token on any free cell.
	DoubleEyedJack Rank = "J2"
)

// BoardRanks are the ranks printed on the board, i.e. everything but jacks.
var BoardRanks = [...]Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankAce, RankKing, RankQueen,
}

type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Card is an immutable playing card. IDs repeat: the deck holds two of every
// board card.
type Card struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Rank Rank   `json:"number"`
}

// NewCard builds the card of the given kind and rank.
func NewCard(kind Kind, rank Rank) Card {
	return Card{ID: string(kind) + "-" + string(rank), Kind: kind, Rank: rank}
}

// IsZero reports whether c is the empty card used for the board corners.
func (c Card) IsZero() bool {
	return c.ID == ""
}

func (c Card) Color() Color {
	if c.Kind == Hearts || c.Kind == Diamonds {
		return Red
	}
	return Black
}

func (c Card) IsJack() bool {
	return c.Rank == SingleEyedJack || c.Rank == DoubleEyedJack
}

func (c Card) IsSingleEyedJack() bool { return c.Rank == SingleEyedJack }

func (c Card) IsDoubleEyedJack() bool { return c.Rank == DoubleEyedJack }

// DeckSize is the number of cards in a full deck: two of each board card plus
// one single-eyed and one double-eyed jack per kind.
const DeckSize = len(Kinds)*len(BoardRanks)*2 + len(Kinds)*2

// NewDeck returns an unshuffled full deck.
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for range 2 {
		for _, kind := range Kinds {
			for _, rank := range BoardRanks {
				deck = append(deck, NewCard(kind, rank))
			}
		}
	}
	for _, kind := range Kinds {
		deck = append(deck, NewCard(kind, SingleEyedJack), NewCard(kind, DoubleEyedJack))
	}
	return deck
}

// Shuffle permutes the deck in place (Fisher-Yates).
func Shuffle(deck Deck, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// Deck is a stack of cards drawn from the tail.
type Deck []Card

// Draw pops the last card. ok is false when the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	n := len(*d)
	if n == 0 {
		return Card{}, false
	}
	c := (*d)[n-1]
	*d = (*d)[:n-1]
	return c, true
}

// Hand is the ordered set of cards a player holds.
type Hand []Card

// HandSize is the number of cards dealt to every player.
const HandSize = 7

func (h *Hand) remove(i int) Card {
	c := (*h)[i]
	*h = append((*h)[:i], (*h)[i+1:]...)
	return c
}
