package game

import "context"

const (
	// Sentinels just outside the utility range.
	minSentinel = -2
	maxSentinel = 2

	// How many nodes are visited between two context checks.
	cancelCheckInterval = 1024
)

// SearchResult is the minimax value of a board together with the move that
// achieves it. Move is NoMove on terminal boards.
type SearchResult struct {
	Value int
	Move  Move
}

// HasMove reports whether the result carries a move.
func (r SearchResult) HasMove() bool {
	return r.Move != NoMove
}

// Stats describes the work done by a search.
type Stats struct {
	Nodes int
}

// MaxValue searches the board from X's point of view: it returns the
// greatest value reachable and the first move, in row-major order, that
// reaches it.
func MaxValue(b Board) SearchResult {
	s := &searcher{ctx: context.Background()}
	r, _ := s.value(b, true)
	return r
}

// MinValue is the mirror of MaxValue for O: least value, first move wins ties.
func MinValue(b Board) SearchResult {
	s := &searcher{ctx: context.Background()}
	r, _ := s.value(b, false)
	return r
}

// BestMove returns the optimal move for the side to move, or false if the
// board is terminal.
func BestMove(b Board) (Move, bool) {
	r, _, _ := Solve(context.Background(), b)
	return r.Move, r.HasMove()
}

// Solve runs the full minimax search for the side to move. The search can be
// cancelled through ctx, in which case ctx.Err() is returned. When it runs to
// completion the result is the one MaxValue or MinValue would return.
func Solve(ctx context.Context, b Board) (SearchResult, Stats, error) {
	if b.IsTerminal() {
		return SearchResult{Value: b.Utility(), Move: NoMove}, Stats{Nodes: 1}, nil
	}

	// Every opening move draws, so the tie-break picks the first one. Skip the
	// full-depth search of the empty board.
	if b == InitialState() {
		return SearchResult{Value: 0, Move: Move{Row: 0, Col: 0}}, Stats{Nodes: 1}, nil
	}

	s := &searcher{ctx: ctx}
	r, err := s.value(b, b.CurrentPlayer() == PlayerX)
	if err != nil {
		return SearchResult{Value: 0, Move: NoMove}, Stats{Nodes: s.nodes}, err
	}
	return r, Stats{Nodes: s.nodes}, nil
}

type searcher struct {
	ctx   context.Context
	nodes int
}

func (s *searcher) value(b Board, maximizing bool) (SearchResult, error) {
	if s.nodes%cancelCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return SearchResult{}, err
		}
	}
	s.nodes++

	if b.IsTerminal() {
		return SearchResult{Value: b.Utility(), Move: NoMove}, nil
	}

	best := SearchResult{Value: maxSentinel, Move: NoMove}
	if maximizing {
		best.Value = minSentinel
	}

	for _, m := range b.LegalMoves() {
		child, err := b.ApplyMove(m)
		if err != nil {
			return SearchResult{}, err
		}
		r, err := s.value(child, !maximizing)
		if err != nil {
			return SearchResult{}, err
		}
		// Strict comparisons keep the first move on ties.
		if (maximizing && r.Value > best.Value) || (!maximizing && r.Value < best.Value) {
			best = SearchResult{Value: r.Value, Move: m}
		}
	}
	return best, nil
}
