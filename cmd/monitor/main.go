package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/keyword-monitor/internal/di"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/config"
	httpServer "github.com/reshetovitsme/keyword-monitor/internal/transport/http"
	"github.com/reshetovitsme/keyword-monitor/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	// Setup structured logging with multiple handlers using slog-multi
	level := new(slog.LevelVar)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	// Use Fanout to send logs to both handlers
	logger := slog.New(slogmulti.Fanout(textHandler, jsonHandler))
	slog.SetDefault(logger)

	if err := run(logger, level); err != nil {
		slog.Error("Monitor stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, level *slog.LevelVar) error {
	injector, err := di.Setup(logger)
	if err != nil {
		return err
	}

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return err
	}
	level.Set(cfg.SlogLevel())

	b, err := do.Invoke[*bot.Bot](injector)
	if err != nil {
		return err
	}
	if _, err := do.Invoke[*telegram.Handler](injector); err != nil {
		return err
	}
	listener, err := do.Invoke[*telegram.Listener](injector)
	if err != nil {
		return err
	}
	server, err := do.Invoke[*httpServer.Server](injector)
	if err != nil {
		return err
	}

	defer func() {
		slog.Info("Shutting down...", "grace", cfg.ShutdownGrace)
		if err := di.Shutdown(injector, cfg.ShutdownGrace); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go b.Start(ctx)

	slog.Info("Application started", "port", cfg.HTTPPort, "groups", len(cfg.Groups))
	slog.Info("Press Ctrl+C to stop")

	return serve(ctx, cancel, server.Start, listener.Run)
}

// serve runs the HTTP server next to the listener, which blocks until the
// context ends or the update stream is lost. A failed HTTP server stops the
// listener and is reported as the exit error.
func serve(ctx context.Context, cancel context.CancelFunc, startHTTP func() error, listen func(context.Context) error) error {
	httpErr := make(chan error, 1)
	go func() {
		if err := startHTTP(); err != nil {
			slog.Error("HTTP server failed", "error", err)
			httpErr <- err
			cancel()
		}
	}()

	err := listen(ctx)

	select {
	case herr := <-httpErr:
		return oops.With("context", "http server failed").Wrap(herr)
	default:
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
