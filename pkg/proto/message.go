package proto

import "ctchen222/tictactoe-engine/internal/game"

// Message types
const (
	TypeStart      = "start"
	TypeMove       = "move"
	TypeAssignment = "assignment"
	TypeUpdate     = "update"
	TypeError      = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type       string `json:"type" validate:"required,oneof=start move"`
	Mark       string `json:"mark,omitempty" validate:"omitempty,oneof=X O x o"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Position   []int  `json:"position,omitempty" validate:"omitempty,len=2"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type     string     `json:"type" validate:"required"`
	Reason   string     `json:"reason,omitempty"`
	Board    *Board     `json:"board,omitempty"`
	Next     string     `json:"next,omitempty"`
	Winner   string     `json:"winner,omitempty"`
	Draw     bool       `json:"draw,omitempty"`
	Finished bool       `json:"finished,omitempty"`
	LastMove *game.Move `json:"lastMove,omitempty"`
}

// PlayerAssignmentMessage informs a player of their assigned mark.
type PlayerAssignmentMessage struct {
	Type       string `json:"type"`
	SessionID  string `json:"sessionId,omitempty"`
	Mark       string `json:"mark"`
	Difficulty string `json:"difficulty"`
}

// NewUpdate builds the update message describing board.
func NewUpdate(board game.Board, lastMove *game.Move) *ServerToClientMessage {
	encoded := EncodeBoard(board)
	msg := &ServerToClientMessage{
		Type:     TypeUpdate,
		Board:    &encoded,
		Winner:   board.Winner().String(),
		Finished: board.IsTerminal(),
		LastMove: lastMove,
	}
	if msg.Finished {
		msg.Draw = board.Winner() == game.NoPlayer
	} else {
		msg.Next = board.CurrentPlayer().String()
	}
	return msg
}

// NewError builds an error message carrying reason.
func NewError(reason string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeError, Reason: reason}
}
