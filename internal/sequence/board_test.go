package sequence

import (
	"math/rand/v2"
	"testing"
)

func TestLayoutPrintsEveryCardTwice(t *testing.T) {
	counts := map[string]int{}
	corners := 0
	for row := range BoardSize {
		for col := range BoardSize {
			card := Layout[row][col]
			if card.IsZero() {
				corners++
				if !IsEmptyCorner(row, col) {
					t.Errorf("empty cell at (%d,%d) is not a corner", row, col)
				}
				continue
			}
			if card.IsJack() {
				t.Errorf("jack printed at (%d,%d)", row, col)
			}
			counts[card.ID]++
		}
	}

	if corners != 4 {
		t.Errorf("expected 4 corners, got %d", corners)
	}
	if len(counts) != len(Kinds)*len(BoardRanks) {
		t.Errorf("expected %d distinct cards, got %d", len(Kinds)*len(BoardRanks), len(counts))
	}
	for id, n := range counts {
		if n != 2 {
			t.Errorf("card %s printed %d times, want 2", id, n)
		}
		if got := len(PositionsOf(id)); got != 2 {
			t.Errorf("PositionsOf(%s) = %d positions, want 2", id, got)
		}
	}
}

func TestCardAt(t *testing.T) {
	if _, ok := CardAt(0, 0); ok {
		t.Error("expected no card on a corner")
	}
	if _, ok := CardAt(-1, 3); ok {
		t.Error("expected no card out of bounds")
	}
	card, ok := CardAt(1, 1)
	if !ok {
		t.Fatal("expected a card at (1,1)")
	}
	if card.ID != NewCard(Hearts, RankThree).ID {
		t.Errorf("expected hearts-3 at (1,1), got %s", card.ID)
	}
	if card.Color() != Red {
		t.Errorf("expected red, got %s", card.Color())
	}
}

func TestBuildBoardIsFresh(t *testing.T) {
	a := BuildBoard()
	a[3][3].Team = Two

	b := BuildBoard()
	if b.OccupiedCount() != 0 {
		t.Fatalf("expected empty board, got %d occupied cells", b.OccupiedCount())
	}
	if b[3][3].Team != NoTeam {
		t.Errorf("expected unowned cell, got team %s", b[3][3].Team)
	}
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize || DeckSize != 104 {
		t.Fatalf("expected 104 cards, got %d", len(deck))
	}

	jacks := map[Rank]int{}
	ids := map[string]int{}
	for _, c := range deck {
		if c.IsJack() {
			jacks[c.Rank]++
			continue
		}
		ids[c.ID]++
	}
	if jacks[SingleEyedJack] != 4 || jacks[DoubleEyedJack] != 4 {
		t.Errorf("expected 4 jacks of each kind, got %v", jacks)
	}
	for id, n := range ids {
		if n != 2 {
			t.Errorf("card %s appears %d times in deck, want 2", id, n)
		}
	}

	Shuffle(deck, rand.New(rand.NewPCG(1, 2)))
	if len(deck) != DeckSize {
		t.Errorf("shuffle changed deck size to %d", len(deck))
	}
}

func TestDeckDraw(t *testing.T) {
	deck := Deck{NewCard(Spades, RankTwo), NewCard(Hearts, RankAce)}

	c, ok := deck.Draw()
	if !ok || c.ID != "hearts-A" {
		t.Fatalf("expected hearts-A from the tail, got %q (ok=%v)", c.ID, ok)
	}
	deck.Draw()
	if _, ok := deck.Draw(); ok {
		t.Error("expected empty deck")
	}
}
