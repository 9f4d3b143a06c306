package sequence

// BoardSize is the number of rows and columns of the board.
const BoardSize = 10

func c(kind Kind, rank Rank) Card { return NewCard(kind, rank) }

var empty = Card{}

// Layout is the printed board, row first. Corners are empty (wild). Every board
// card appears exactly twice. Never mutate it.
var Layout = [BoardSize][BoardSize]Card{
	{empty, c(Diamonds, RankSix), c(Diamonds, RankSeven), c(Diamonds, RankEight), c(Diamonds, RankNine), c(Diamonds, RankTen), c(Diamonds, RankQueen), c(Diamonds, RankKing), c(Diamonds, RankAce), empty},
	{c(Diamonds, RankFive), c(Hearts, RankThree), c(Hearts, RankTwo), c(Spades, RankTwo), c(Spades, RankThree), c(Spades, RankFour), c(Spades, RankFive), c(Spades, RankSix), c(Spades, RankSeven), c(Clover, RankAce)},
	{c(Diamonds, RankFour), c(Hearts, RankFour), c(Diamonds, RankKing), c(Diamonds, RankAce), c(Clover, RankAce), c(Clover, RankKing), c(Clover, RankQueen), c(Clover, RankTen), c(Spades, RankEight), c(Clover, RankKing)},
	{c(Diamonds, RankThree), c(Hearts, RankFive), c(Diamonds, RankQueen), c(Hearts, RankQueen), c(Hearts, RankTen), c(Hearts, RankNine), c(Hearts, RankEight), c(Clover, RankNine), c(Spades, RankNine), c(Clover, RankQueen)},
	{c(Diamonds, RankTwo), c(Hearts, RankSix), c(Diamonds, RankTen), c(Hearts, RankKing), c(Hearts, RankThree), c(Hearts, RankTwo), c(Hearts, RankSeven), c(Clover, RankEight), c(Spades, RankTen), c(Clover, RankTen)},
	{c(Spades, RankAce), c(Hearts, RankSeven), c(Diamonds, RankNine), c(Hearts, RankAce), c(Hearts, RankFour), c(Hearts, RankFive), c(Hearts, RankSix), c(Clover, RankSeven), c(Spades, RankQueen), c(Clover, RankNine)},
	{c(Spades, RankKing), c(Hearts, RankEight), c(Diamonds, RankEight), c(Clover, RankTwo), c(Clover, RankThree), c(Clover, RankFour), c(Clover, RankFive), c(Clover, RankSix), c(Spades, RankKing), c(Clover, RankEight)},
	{c(Spades, RankQueen), c(Hearts, RankNine), c(Diamonds, RankSeven), c(Diamonds, RankSix), c(Diamonds, RankFive), c(Diamonds, RankFour), c(Diamonds, RankThree), c(Diamonds, RankTwo), c(Spades, RankAce), c(Clover, RankSeven)},
	{c(Spades, RankTen), c(Hearts, RankTen), c(Hearts, RankQueen), c(Hearts, RankKing), c(Hearts, RankAce), c(Clover, RankTwo), c(Clover, RankThree), c(Clover, RankFour), c(Clover, RankFive), c(Clover, RankSix)},
	{empty, c(Spades, RankNine), c(Spades, RankEight), c(Spades, RankSeven), c(Spades, RankSix), c(Spades, RankFive), c(Spades, RankFour), c(Spades, RankThree), c(Spades, RankTwo), empty},
}

// Position is a board coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

var positions = indexLayout()

func indexLayout() map[string][]Position {
	idx := make(map[string][]Position, len(Kinds)*len(BoardRanks))
	for row := range BoardSize {
		for col := range BoardSize {
			card := Layout[row][col]
			if card.IsZero() {
				continue
			}
			idx[card.ID] = append(idx[card.ID], Position{Row: row, Col: col})
		}
	}
	return idx
}

// PositionsOf returns the cells where the card with the given id is printed.
// Jacks are printed nowhere.
func PositionsOf(id string) []Position {
	return positions[id]
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// IsEmptyCorner reports whether (row, col) is one of the four wild corners.
func IsEmptyCorner(row, col int) bool {
	return (row == 0 || row == BoardSize-1) && (col == 0 || col == BoardSize-1)
}

// CardAt returns the printed card at (row, col). ok is false for corners and
// out-of-bounds coordinates.
func CardAt(row, col int) (Card, bool) {
	if !InBounds(row, col) {
		return Card{}, false
	}
	card := Layout[row][col]
	return card, !card.IsZero()
}

// Cell is the mutable occupancy of a board position.
type Cell struct {
	Team              Team `json:"team"`
	IsPartOfASequence bool `json:"isPartOfASequence"`
}

func (c Cell) Occupied() bool { return c.Team != NoTeam }

// Board is the occupancy grid of a match, row first.
type Board [BoardSize][BoardSize]Cell

// BuildBoard returns a board with every cell unowned.
func BuildBoard() Board {
	var b Board
	for row := range BoardSize {
		for col := range BoardSize {
			b[row][col] = Cell{Team: NoTeam}
		}
	}
	return b
}

// OccupiedCount returns how many cells hold a token.
func (b *Board) OccupiedCount() int {
	n := 0
	for row := range BoardSize {
		for col := range BoardSize {
			if b[row][col].Occupied() {
				n++
			}
		}
	}
	return n
}

// isDead reports whether every printed position of card is taken.
func (b *Board) isDead(card Card) bool {
	for _, p := range PositionsOf(card.ID) {
		if !b[p.Row][p.Col].Occupied() {
			return false
		}
	}
	return true
}
