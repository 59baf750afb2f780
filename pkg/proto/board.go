package proto

import (
	"fmt"

	"ctchen222/tictactoe-engine/internal/game"
)

// Board is the JSON form of a board: rows of "", "X" or "O".
type Board [3][3]string

// EncodeBoard converts a game board to its wire form.
func EncodeBoard(b game.Board) Board {
	var out Board
	for r := range b {
		for c := range b[r] {
			out[r][c] = b[r][c].String()
		}
	}
	return out
}

// DecodeBoard parses a wire board and checks it could arise from legal play.
func DecodeBoard(in Board) (game.Board, error) {
	var b game.Board
	for r := range in {
		for c := range in[r] {
			cell, err := game.ParseCell(in[r][c])
			if err != nil {
				return game.Board{}, fmt.Errorf("cell (%d, %d): %w", r, c, err)
			}
			b[r][c] = cell
		}
	}

	if err := b.Validate(); err != nil {
		return game.Board{}, err
	}
	return b, nil
}

// PositionToMove converts a [row, col] pair to a move.
func PositionToMove(position []int) (game.Move, error) {
	if len(position) != 2 {
		return game.NoMove, fmt.Errorf("position needs exactly two coordinates, got %d", len(position))
	}
	return game.Move{Row: position[0], Col: position[1]}, nil
}
