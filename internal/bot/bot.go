package bot

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/tictactoe-engine/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "ctchen222/tictactoe-engine/bot"

var tracer = otel.Tracer(instrumentationName)

// MoveCalculator picks moves for the side to move on a board. It is safe for
// concurrent use.
type MoveCalculator struct {
	defaultDifficulty Difficulty
	timeout           time.Duration

	searchDuration metric.Float64Histogram
	searchNodes    metric.Int64Counter
}

// NewMoveCalculator creates a calculator. An empty difficulty passed to
// CalculateNextMove falls back to defaultDifficulty. A zero timeout leaves
// the search bounded only by the caller's context.
func NewMoveCalculator(defaultDifficulty Difficulty, timeout time.Duration) (*MoveCalculator, error) {
	if _, err := ParseDifficulty(string(defaultDifficulty)); err != nil {
		return nil, err
	}

	meter := otel.Meter(instrumentationName)

	searchDuration, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Time spent choosing a move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	searchNodes, err := meter.Int64Counter("bot.search.nodes",
		metric.WithDescription("Boards visited by the minimax search"),
	)
	if err != nil {
		return nil, err
	}

	return &MoveCalculator{
		defaultDifficulty: defaultDifficulty,
		timeout:           timeout,
		searchDuration:    searchDuration,
		searchNodes:       searchNodes,
	}, nil
}

// DefaultDifficulty is the difficulty used when none is requested.
func (c *MoveCalculator) DefaultDifficulty() Difficulty {
	return c.defaultDifficulty
}

// CalculateNextMove returns the bot's move for the side to move on board.
func (c *MoveCalculator) CalculateNextMove(ctx context.Context, board game.Board, difficulty Difficulty) (game.Move, error) {
	if difficulty == "" {
		difficulty = c.defaultDifficulty
	}

	ctx, span := tracer.Start(ctx, "bot.CalculateNextMove", trace.WithAttributes(
		attribute.String("game.difficulty", string(difficulty)),
		attribute.String("game.player", board.CurrentPlayer().String()),
	))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	move, stats, err := nextMove(ctx, board, difficulty)
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(attribute.String("game.difficulty", string(difficulty)))
	c.searchDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	c.searchNodes.Add(ctx, int64(stats.Nodes), attrs)

	if err != nil {
		slog.WarnContext(ctx, "bot could not pick a move", "game.difficulty", difficulty, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "bot could not pick a move")
		return game.NoMove, err
	}

	span.SetAttributes(
		attribute.Int("move.row", move.Row),
		attribute.Int("move.col", move.Col),
		attribute.Int("search.nodes", stats.Nodes),
	)
	slog.DebugContext(ctx, "bot picked a move", "game.difficulty", difficulty, "move", move.String(), "search.nodes", stats.Nodes, "elapsed", elapsed)

	return move, nil
}
