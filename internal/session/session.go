package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

//go:generate mockgen -destination=mock_move_calculator_test.go -package=session . MoveCalculator

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	CalculateNextMove(ctx context.Context, board game.Board, difficulty bot.Difficulty) (game.Move, error)
}

// Options configure a new session.
type Options struct {
	// Human is the side the human plays. Defaults to X.
	Human game.Player
	// Difficulty is passed to the calculator. Empty means the calculator's default.
	Difficulty bot.Difficulty
}

// Session is one human playing against the engine over one connection. The
// board lives only as long as the connection.
type Session struct {
	ID         string
	conn       Connection
	calculator MoveCalculator
	log        *slog.Logger

	board      game.Board
	human      game.Player
	difficulty bot.Difficulty
}

// New creates a session. Nothing is sent until Run is called.
func New(conn Connection, calculator MoveCalculator, opts Options) *Session {
	if opts.Human == game.NoPlayer {
		opts.Human = game.PlayerX
	}
	id := uuid.New().String()

	return &Session{
		ID:         id,
		conn:       conn,
		calculator: calculator,
		log:        slog.With("session.id", id),
		board:      game.InitialState(),
		human:      opts.Human,
		difficulty: opts.Difficulty,
	}
}

// Board returns the current board.
func (s *Session) Board() game.Board {
	return s.board
}

// Run starts the game and handles client messages until the connection is
// closed or ctx is done. The connection is closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session.Run", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	stop := context.AfterFunc(ctx, func() {
		s.conn.Close()
	})
	defer func() {
		stop()
		s.conn.Close()
	}()

	s.log.InfoContext(ctx, "session started", "human", s.human.String(), "game.difficulty", s.difficulty)

	if err := s.start(ctx, s.human, s.difficulty); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to start game")
		return err
	}

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || isClosed(err) {
				s.log.InfoContext(ctx, "session ended")
				return nil
			}
			s.log.WarnContext(ctx, "connection error", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "connection error")
			return fmt.Errorf("read message: %w", err)
		}

		if err := s.HandleMessage(ctx, raw); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to handle message")
			return err
		}
	}
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure)
}

// start resets the board and tells the client its assignment. If the engine
// plays X it moves right away.
func (s *Session) start(ctx context.Context, human game.Player, difficulty bot.Difficulty) error {
	s.board = game.InitialState()
	s.human = human
	s.difficulty = difficulty

	if err := s.send(ctx, s.assignment()); err != nil {
		return err
	}
	if err := s.sendUpdate(ctx, nil); err != nil {
		return err
	}

	if s.board.CurrentPlayer() != s.human {
		return s.engineTurn(ctx)
	}
	return nil
}

// engineTurn lets the calculator play for the side that is not the human.
func (s *Session) engineTurn(ctx context.Context) error {
	move, err := s.calculator.CalculateNextMove(ctx, s.board, s.difficulty)
	if err != nil && ctx.Err() == nil && s.difficulty != bot.Medium {
		// Usually the hard search running out of time.
		s.log.WarnContext(ctx, "engine failed, falling back to medium", "game.difficulty", s.difficulty, "error", err)
		move, err = s.calculator.CalculateNextMove(ctx, s.board, bot.Medium)
	}
	if err != nil {
		return fmt.Errorf("engine move: %w", err)
	}

	next, err := s.board.ApplyMove(move)
	if err != nil {
		return fmt.Errorf("engine played %s: %w", move, err)
	}
	s.board = next

	s.log.DebugContext(ctx, "engine moved", "move", move.String(), "board", s.board.String())
	return s.sendUpdate(ctx, &move)
}

func (s *Session) send(ctx context.Context, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.ErrorContext(ctx, "error writing message", "error", err)
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
