package proto

import "ctchen222/tictactoe-engine/internal/game"

// BoardRequest carries a board for the stateless engine endpoints.
type BoardRequest struct {
	Board Board `json:"board"`
}

// MoveRequest asks the engine to apply a move to a board.
type MoveRequest struct {
	Board    Board `json:"board"`
	Position []int `json:"position" validate:"required,len=2"`
}

// BotMoveRequest asks the bot for a move at a given difficulty.
type BotMoveRequest struct {
	Board      Board  `json:"board"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

// StateResponse describes a board. Utility is only set on terminal boards.
type StateResponse struct {
	Board      Board       `json:"board"`
	Next       string      `json:"next,omitempty"`
	LegalMoves []game.Move `json:"legalMoves"`
	Winner     string      `json:"winner,omitempty"`
	Terminal   bool        `json:"terminal"`
	Utility    *int        `json:"utility,omitempty"`
}

// SearchResponse is the result of a search. Move is nil on terminal boards.
type SearchResponse struct {
	Value *int       `json:"value,omitempty"`
	Move  *game.Move `json:"move"`
}

// NewStateResponse describes b.
func NewStateResponse(b game.Board) StateResponse {
	resp := StateResponse{
		Board:      EncodeBoard(b),
		LegalMoves: b.LegalMoves(),
		Winner:     b.Winner().String(),
		Terminal:   b.IsTerminal(),
	}
	if resp.Terminal {
		utility := b.Utility()
		resp.Utility = &utility
	} else {
		resp.Next = b.CurrentPlayer().String()
	}
	return resp
}
