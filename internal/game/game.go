package game

// Cell is the content of one board square.
type Cell uint8

// Player is one of the two sides. NoPlayer stands for "nobody", e.g. when
// there is no winner yet.
type Player uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

const (
	NoPlayer Player = iota
	PlayerX
	PlayerO
)

const (
	// Board boundaries
	BorderMin = 0
	BorderMax = 2

	size = BorderMax + 1
)

// Board is a 3x3 row-major grid. It is a value type: copying a Board copies
// all nine cells, so boards never share storage.
type Board [size][size]Cell

// Move addresses one cell of the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove is returned where a move is absent, e.g. on terminal boards.
var NoMove = Move{Row: -1, Col: -1}

// lines lists every three-in-a-row: rows, then columns, then diagonals.
var lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// InitialState returns the empty board.
func InitialState() Board {
	return Board{}
}

// Count returns how many X and O marks are on the board.
func (b Board) Count() (x, o int) {
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			switch b[r][c] {
			case MarkX:
				x++
			case MarkO:
				o++
			}
		}
	}
	return x, o
}

// CurrentPlayer derives whose turn it is from the mark counts. X moves first.
func (b Board) CurrentPlayer() Player {
	x, o := b.Count()
	if x > o {
		return PlayerO
	}
	return PlayerX
}

// LegalMoves returns every empty cell in row-major order.
func (b Board) LegalMoves() []Move {
	moves := make([]Move, 0, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b[r][c] == Empty {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// Winner returns the owner of the first complete line found, scanning rows,
// then columns, then diagonals. It returns NoPlayer if there is none.
func (b Board) Winner() Player {
	for _, line := range lines {
		first := b.at(line[0])
		if first != Empty && first == b.at(line[1]) && first == b.at(line[2]) {
			return first.Owner()
		}
	}
	return NoPlayer
}

// IsFull reports whether no empty cell remains.
func (b Board) IsFull() bool {
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b[r][c] == Empty {
				return false
			}
		}
	}
	return true
}

// IsTerminal reports whether the game is over, either by a completed line or
// by a full board.
func (b Board) IsTerminal() bool {
	return b.Winner() != NoPlayer || b.IsFull()
}

// Utility is the payoff of a terminal board: 1 if X won, -1 if O won and 0
// for a draw. It must only be called on terminal boards; any other board
// yields 0, which carries no meaning.
func (b Board) Utility() int {
	switch b.Winner() {
	case PlayerX:
		return 1
	case PlayerO:
		return -1
	default:
		return 0
	}
}

// ApplyMove returns a new board with the current player's mark placed on m.
// The receiver is left untouched. It fails with an *IllegalMoveError if m is
// out of range or the cell is taken.
func (b Board) ApplyMove(m Move) (Board, error) {
	if !m.InRange() {
		return b, &IllegalMoveError{Move: m, Err: ErrOutOfRange}
	}
	if b[m.Row][m.Col] != Empty {
		return b, &IllegalMoveError{Move: m, Err: ErrCellOccupied}
	}

	next := b
	next[m.Row][m.Col] = b.CurrentPlayer().Mark()
	return next, nil
}

// Validate checks that every cell holds a known value and that the mark
// counts respect the turn order (X count equals O count, or exceeds it by one).
func (b Board) Validate() error {
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if b[r][c] > MarkO {
				return &InvalidStateError{Reason: "unknown cell value"}
			}
		}
	}

	x, o := b.Count()
	if x != o && x != o+1 {
		return &InvalidStateError{X: x, O: o, Reason: "mark counts out of turn order"}
	}
	return nil
}

func (b Board) at(m Move) Cell {
	return b[m.Row][m.Col]
}

// InRange reports whether both coordinates are on the board.
func (m Move) InRange() bool {
	return m.Row >= BorderMin && m.Row <= BorderMax && m.Col >= BorderMin && m.Col <= BorderMax
}
