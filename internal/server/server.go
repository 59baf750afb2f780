package server

import (
	"log/slog"
	"net/http"

	"ctchen222/tictactoe-engine/internal/api/controller"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Calculator is what the server needs from the bot: moves for sessions and a
// default difficulty for clients that do not ask for one.
type Calculator interface {
	session.MoveCalculator
	DefaultDifficulty() bot.Difficulty
}

type Server struct {
	engine     *gin.Engine
	upgrader   websocket.Upgrader
	calculator Calculator
}

func NewServer(calculator Calculator, engineController *controller.EngineController) *Server {
	s := &Server{
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		calculator: calculator,
	}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/ws", s.handleWebSocket)

	v1 := s.engine.Group("/api/v1")
	engineController.RegisterRoutes(v1.Group("/engine"))

	return s
}

// Engine returns the http.Handler serving every route.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// handleWebSocket checks the query, upgrades the connection and runs a
// session on it until the client leaves. Options are rejected before the
// upgrade so that a bad request still gets a plain HTTP error.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	opts, err := s.sessionOptions(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid session options")
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("game.human", opts.Human.String()),
		attribute.String("game.difficulty", string(opts.Difficulty)),
	)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upgrade connection")
		return
	}

	sess := session.New(conn, s.calculator, opts)
	span.SetAttributes(attribute.String("session.id", sess.ID))

	if err := sess.Run(ctx); err != nil {
		slog.WarnContext(ctx, "session ended with error", "session.id", sess.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "session failed")
	}
}

func (s *Server) sessionOptions(c *gin.Context) (session.Options, error) {
	opts := session.Options{
		Human:      game.PlayerX,
		Difficulty: s.calculator.DefaultDifficulty(),
	}

	if mark := c.Query("mark"); mark != "" {
		human, err := game.ParsePlayer(mark)
		if err != nil {
			return opts, err
		}
		opts.Human = human
	}

	if raw := c.Query("difficulty"); raw != "" {
		difficulty, err := bot.ParseDifficulty(raw)
		if err != nil {
			return opts, err
		}
		opts.Difficulty = difficulty
	}

	return opts, nil
}
