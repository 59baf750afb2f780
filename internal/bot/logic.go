package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"ctchen222/tictactoe-engine/internal/game"
)

// Difficulty selects how the bot picks its moves.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	ErrNoMoves           = errors.New("no moves left")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// ParseDifficulty maps a difficulty name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// nextMove determines the move of the side to move based on the difficulty.
func nextMove(ctx context.Context, board game.Board, difficulty Difficulty) (game.Move, game.Stats, error) {
	if board.IsTerminal() {
		return game.NoMove, game.Stats{}, ErrNoMoves
	}

	switch difficulty {
	case Easy:
		return easyMove(board), game.Stats{}, nil
	case Medium:
		return mediumMove(board), game.Stats{}, nil
	case Hard:
		return hardMove(ctx, board)
	default:
		return game.NoMove, game.Stats{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
}

// easyMove makes a completely random move.
func easyMove(board game.Board) game.Move {
	moves := board.LegalMoves()
	return moves[rand.Intn(len(moves))]
}

// mediumMove will win if it can, block if it must, otherwise move randomly.
func mediumMove(board game.Board) game.Move {
	me := board.CurrentPlayer()

	// 1. Win: Check if the bot can win in the next move
	if m, ok := findWinningMove(board, me); ok {
		return m
	}

	// 2. Block: Check if the opponent is about to win and block them
	if m, ok := findWinningMove(board, me.Opponent()); ok {
		return m
	}

	// 3. Random: Otherwise, make a random move
	return easyMove(board)
}

// hardMove plays the minimax move.
func hardMove(ctx context.Context, board game.Board) (game.Move, game.Stats, error) {
	result, stats, err := game.Solve(ctx, board)
	if err != nil {
		return game.NoMove, stats, fmt.Errorf("minimax search: %w", err)
	}
	return result.Move, stats, nil
}

// findWinningMove returns the first empty cell, in row-major order, that
// would complete a line for p.
func findWinningMove(board game.Board, p game.Player) (game.Move, bool) {
	for _, m := range board.LegalMoves() {
		probe := board
		probe[m.Row][m.Col] = p.Mark()
		if probe.Winner() == p {
			return m, true
		}
	}
	return game.NoMove, false
}
