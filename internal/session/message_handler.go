package session

import (
	"context"
	"encoding/json"
	"errors"

	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/validator"
	"ctchen222/tictactoe-engine/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from the client. It acts as a dispatcher.
// Bad input is answered with an error message and is not fatal; only a
// failing connection or engine makes it return an error.
func (s *Session) HandleMessage(ctx context.Context, rawMessage []byte) error {
	ctx, span := tracer.Start(ctx, "session.HandleMessage", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		s.log.WarnContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return s.sendError(ctx, "malformed message")
	}

	if err := validator.Check(message); err != nil {
		s.log.WarnContext(ctx, "invalid message from client", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return s.sendError(ctx, err.Error())
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeStart:
		return s.handleStart(ctx, &message)
	case proto.TypeMove:
		return s.handleMove(ctx, &message)
	}
	return nil
}

func (s *Session) handleStart(ctx context.Context, message *proto.ClientToServerMessage) error {
	human := s.human
	if message.Mark != "" {
		p, err := game.ParsePlayer(message.Mark)
		if err != nil {
			return s.sendError(ctx, err.Error())
		}
		human = p
	}

	difficulty := s.difficulty
	if message.Difficulty != "" {
		d, err := bot.ParseDifficulty(message.Difficulty)
		if err != nil {
			return s.sendError(ctx, err.Error())
		}
		difficulty = d
	}

	s.log.InfoContext(ctx, "new game", "human", human.String(), "game.difficulty", difficulty)
	return s.start(ctx, human, difficulty)
}

func (s *Session) handleMove(ctx context.Context, message *proto.ClientToServerMessage) error {
	if s.board.IsTerminal() {
		return s.sendError(ctx, "game already finished")
	}
	if s.board.CurrentPlayer() != s.human {
		return s.sendError(ctx, "not your turn")
	}

	move, err := proto.PositionToMove(message.Position)
	if err != nil {
		return s.sendError(ctx, err.Error())
	}

	next, err := s.board.ApplyMove(move)
	var illegal *game.IllegalMoveError
	if errors.As(err, &illegal) {
		// The client is asked for another move; the game goes on.
		s.log.InfoContext(ctx, "illegal move", "move", move.String(), "error", err)
		return s.sendError(ctx, illegal.Error())
	}
	if err != nil {
		return err
	}
	s.board = next

	if err := s.sendUpdate(ctx, &move); err != nil {
		return err
	}

	if s.board.IsTerminal() {
		s.log.InfoContext(ctx, "game over", "winner", s.board.Winner().String(), "board", s.board.String())
		return nil
	}

	if err := s.engineTurn(ctx); err != nil {
		return err
	}

	if s.board.IsTerminal() {
		s.log.InfoContext(ctx, "game over", "winner", s.board.Winner().String(), "board", s.board.String())
	}
	return nil
}

func (s *Session) assignment() *proto.PlayerAssignmentMessage {
	return &proto.PlayerAssignmentMessage{
		Type:       proto.TypeAssignment,
		SessionID:  s.ID,
		Mark:       s.human.String(),
		Difficulty: string(s.difficulty),
	}
}

func (s *Session) sendUpdate(ctx context.Context, lastMove *game.Move) error {
	return s.send(ctx, proto.NewUpdate(s.board, lastMove))
}

func (s *Session) sendError(ctx context.Context, reason string) error {
	return s.send(ctx, proto.NewError(reason))
}
