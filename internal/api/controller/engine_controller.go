package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/validator"
	"ctchen222/tictactoe-engine/pkg/proto"

	"github.com/gin-gonic/gin"
)

// MoveCalculator picks a move at a difficulty.
type MoveCalculator interface {
	CalculateNextMove(ctx context.Context, board game.Board, difficulty bot.Difficulty) (game.Move, error)
}

// EngineController exposes the engine over HTTP. Every endpoint is stateless:
// the board travels in the request body.
type EngineController struct {
	calculator MoveCalculator
}

// NewEngineController creates a new EngineController.
func NewEngineController(calculator MoveCalculator) *EngineController {
	return &EngineController{calculator: calculator}
}

// RegisterRoutes mounts the engine endpoints on rg.
func (ec *EngineController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/state", ec.State)
	rg.POST("/apply", ec.Apply)
	rg.POST("/best-move", ec.BestMove)
	rg.POST("/bot-move", ec.BotMove)
}

// State describes a board: whose turn it is, legal moves, winner and utility.
func (ec *EngineController) State(c *gin.Context) {
	var req proto.BoardRequest
	board, ok := bindBoard(c, &req, &req.Board)
	if !ok {
		return
	}

	response.SuccessResponse(c, proto.NewStateResponse(board))
}

// Apply plays a move for the side to move and returns the new board.
func (ec *EngineController) Apply(c *gin.Context) {
	var req proto.MoveRequest
	board, ok := bindBoard(c, &req, &req.Board)
	if !ok {
		return
	}

	move, err := proto.PositionToMove(req.Position)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	next, err := board.ApplyMove(move)
	if err != nil {
		var illegal *game.IllegalMoveError
		if errors.As(err, &illegal) {
			response.ErrorResponse(c, http.StatusUnprocessableEntity, illegal.Error())
			return
		}
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(c, proto.NewStateResponse(next))
}

// BestMove runs the minimax search for the side to move.
func (ec *EngineController) BestMove(c *gin.Context) {
	var req proto.BoardRequest
	board, ok := bindBoard(c, &req, &req.Board)
	if !ok {
		return
	}

	result, stats, err := game.Solve(c.Request.Context(), board)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "search aborted", "error", err)
		response.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	slog.DebugContext(c.Request.Context(), "search finished", "board", board.String(), "search.nodes", stats.Nodes)

	resp := proto.SearchResponse{Value: &result.Value}
	if result.HasMove() {
		resp.Move = &result.Move
	}
	response.SuccessResponse(c, resp)
}

// BotMove asks the bot for a move at the requested difficulty.
func (ec *EngineController) BotMove(c *gin.Context) {
	var req proto.BotMoveRequest
	board, ok := bindBoard(c, &req, &req.Board)
	if !ok {
		return
	}

	move, err := ec.calculator.CalculateNextMove(c.Request.Context(), board, bot.Difficulty(req.Difficulty))
	switch {
	case errors.Is(err, bot.ErrNoMoves):
		response.ErrorResponse(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		response.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	response.SuccessResponse(c, proto.SearchResponse{Move: &move})
}

// bindBoard decodes and validates the JSON body into req, then decodes the
// wire board it carries. It writes the error response itself.
func bindBoard(c *gin.Context, req any, wire *proto.Board) (game.Board, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return game.Board{}, false
	}
	if err := validator.Check(req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return game.Board{}, false
	}

	board, err := proto.DecodeBoard(*wire)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return game.Board{}, false
	}
	return board, true
}
