package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ctchen222/tictactoe-engine/internal/api/controller"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/config"
	"ctchen222/tictactoe-engine/internal/logger"
	"ctchen222/tictactoe-engine/internal/server"
	"ctchen222/tictactoe-engine/internal/telemetry"

	"github.com/gin-gonic/gin"
)

func main() {
	conf := config.MustLoad("config.yml")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Telemetry first so the otelslog bridge picks up the real provider.
	shutdown, err := telemetry.InitOtel(ctx, conf.Telemetry)
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	log := logger.Init(conf.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	calc, err := bot.NewMoveCalculator(bot.Difficulty(conf.Bot.DefaultDifficulty), conf.Bot.MoveTimeout)
	if err != nil {
		log.Error("failed to create move calculator", "error", err)
		return
	}

	engineController := controller.NewEngineController(calc)
	srv := server.NewServer(calc, engineController)

	// Sessions inherit ctx, so a shutdown signal also closes open websockets.
	httpServer := &http.Server{
		Addr:    conf.HTTP.Addr,
		Handler: srv.Engine(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server started", "addr", conf.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error("http server failed", "error", err)
			return
		}
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server exiting")
}
