package sequence

const (
	// SequenceLength is the number of aligned cells forming a sequence.
	SequenceLength = 5
	// DoubleSequenceLength is the run length that scores two sequences at once.
	DoubleSequenceLength = 9
	// SequencesToWin is the tally that ends a match.
	SequencesToWin = 2

	minFreshCells = 3
)

// Bounds is the inclusive line of cells covered by a new sequence. Start is
// the end reached when walking backward along the axis.
type Bounds struct {
	SequencesCount int `json:"sequencesCount"`
	StartRow       int `json:"startRow"`
	StartCol       int `json:"startCol"`
	EndRow         int `json:"endRow"`
	EndCol         int `json:"endCol"`
}

// horizontal, vertical, diagonal, anti-diagonal
var axes = [...]Position{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

type runCell struct {
	pos  Position
	free bool // corner or borrowed sequence cell
}

// FindNewSequences reports the sequences completed by team owning (row, col).
// The cell must already carry the team's token. It returns at most one Bounds
// per axis and nothing when the cell is itself part of a sequence.
func FindNewSequences(b *Board, row, col int, team Team) []Bounds {
	if !InBounds(row, col) || !team.Valid() || b[row][col].IsPartOfASequence {
		return nil
	}
	var found []Bounds
	for _, axis := range axes {
		run, origin := collectRun(b, Position{Row: row, Col: col}, axis, team)
		if bounds, ok := trimRun(run, origin); ok {
			found = append(found, bounds)
		}
	}
	return found
}

func collectRun(b *Board, origin, axis Position, team Team) ([]runCell, int) {
	borrowed := false
	backward := walk(b, origin, Position{Row: -axis.Row, Col: -axis.Col}, team, &borrowed)
	forward := walk(b, origin, axis, team, &borrowed)

	run := make([]runCell, 0, len(backward)+len(forward)+1)
	for i := len(backward) - 1; i >= 0; i-- {
		run = append(run, backward[i])
	}
	run = append(run, runCell{pos: origin})
	run = append(run, forward...)
	return run, len(backward)
}

// walk collects extending cells from origin (exclusive) in direction dir.
// A single sequence cell may be borrowed across both directions of a run; a
// second one halts the walk.
func walk(b *Board, origin, dir Position, team Team, borrowed *bool) []runCell {
	var cells []runCell
	p := Position{Row: origin.Row + dir.Row, Col: origin.Col + dir.Col}
	for ; InBounds(p.Row, p.Col); p = (Position{Row: p.Row + dir.Row, Col: p.Col + dir.Col}) {
		cell := b[p.Row][p.Col]
		switch {
		case IsEmptyCorner(p.Row, p.Col):
			cells = append(cells, runCell{pos: p, free: true})
		case cell.Team != team:
			return cells
		case !cell.IsPartOfASequence:
			cells = append(cells, runCell{pos: p})
		case !*borrowed:
			*borrowed = true
			cells = append(cells, runCell{pos: p, free: true})
		default:
			return cells
		}
	}
	return cells
}

func trimRun(run []runCell, origin int) (Bounds, bool) {
	size, count := SequenceLength, 1
	if len(run) >= DoubleSequenceLength {
		size, count = DoubleSequenceLength, 2
	}
	if len(run) < size || freshCells(run) < minFreshCells {
		return Bounds{}, false
	}

	best := -1
	for start := max(0, origin-size+1); start <= min(origin, len(run)-size); start++ {
		if best < 0 || betterWindow(run[start:start+size], run[best:best+size]) {
			best = start
		}
	}

	first, last := run[best].pos, run[best+size-1].pos
	return Bounds{
		SequencesCount: count,
		StartRow:       first.Row,
		StartCol:       first.Col,
		EndRow:         last.Row,
		EndCol:         last.Col,
	}, true
}

func freshCells(cells []runCell) int {
	n := 0
	for _, c := range cells {
		if !c.free {
			n++
		}
	}
	return n
}

// betterWindow orders candidate windows: closer to the board center, then
// smaller row, then smaller column.
func betterWindow(a, b []runCell) bool {
	if da, db := centerDistance(a), centerDistance(b); da != db {
		return da < db
	}
	ra, ca := topLeft(a)
	rb, cb := topLeft(b)
	if ra != rb {
		return ra < rb
	}
	return ca < cb
}

// centerDistance is the squared distance between the window midpoint and the
// board center, both scaled by two to stay in integers.
func centerDistance(window []runCell) int {
	first, last := window[0].pos, window[len(window)-1].pos
	dr := first.Row + last.Row - (BoardSize - 1)
	dc := first.Col + last.Col - (BoardSize - 1)
	return dr*dr + dc*dc
}

func topLeft(window []runCell) (int, int) {
	first, last := window[0].pos, window[len(window)-1].pos
	return min(first.Row, last.Row), min(first.Col, last.Col)
}

// MarkSequences flags every cell on each inclusive bounds line as part of a
// sequence, corners included.
func MarkSequences(b *Board, bounds []Bounds) {
	for _, s := range bounds {
		dr, dc := sign(s.EndRow-s.StartRow), sign(s.EndCol-s.StartCol)
		r, c := s.StartRow, s.StartCol
		for range BoardSize {
			if !InBounds(r, c) {
				break
			}
			b[r][c].IsPartOfASequence = true
			if r == s.EndRow && c == s.EndCol {
				break
			}
			r, c = r+dr, c+dc
		}
	}
}

// AddSequenceCounts adds the sequences in bounds to the team's tally and
// returns the new total.
func AddSequenceCounts(counts *[TeamCount]int, team Team, bounds []Bounds) int {
	if !team.Valid() {
		return 0
	}
	for _, s := range bounds {
		counts[team] += s.SequencesCount
	}
	return counts[team]
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
