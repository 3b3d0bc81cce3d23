package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sketchpad/internal/config"
	"sketchpad/internal/handlers"
	"sketchpad/internal/message"
	"sketchpad/internal/middleware"
	"sketchpad/internal/room"
	"sketchpad/internal/transport"
	"sketchpad/internal/user"
)

const cleanupInterval = 15 * time.Minute

func newServeCmd() *cobra.Command {
	v := viper.New()
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the shared drawing canvas server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, envFile)
			if err != nil {
				return err
			}

			logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flags.String("addr", ":8080", "listen address")
	flags.String("domains", "", "comma-separated allowed WebSocket origins")
	flags.Int("canvas-width", 400, "canvas width in pixels")
	flags.Int("canvas-height", 400, "canvas height in pixels")
	flags.String("background", "white", "canvas background colour")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")

	for _, name := range []string{"addr", "domains", "canvas-width", "canvas-height", "background", "log-level", "log-format"} {
		// flag names use dashes, config keys underscores
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	return cmd
}

// serve runs the server until ctx is cancelled
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	limits := cfg.RateLimit()
	validator := message.NewValidator()
	sessions := user.NewSessionManager(limits.MessagesPerSecond, limits.BurstSize)
	rooms := room.NewManager(cfg.Canvas(), room.NewSynchronizer(), logger)
	ipLimiter := middleware.NewIPRateLimit(6*time.Second, 5) // 10 connections per minute, burst of 5

	server := transport.NewServer(
		limits,
		ipLimiter,
		sessions,
		rooms,
		handlers.NewMessageRouter(validator, limits, sessions, room.NewBroadcaster(logger)),
		transport.NewAuthenticator(sessions, validator, logger),
		cfg.AllowedOrigins(),
		logger,
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go cleanup(ctx, rooms, sessions, ipLimiter)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("drawing server started", "addr", cfg.Addr, "width", cfg.CanvasWidth, "height", cfg.CanvasHeight)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// cleanup: periodically drops expired rooms, sessions and IP limiters
func cleanup(ctx context.Context, rooms *room.Manager, sessions *user.SessionManager, ipLimiter *middleware.IPRateLimit) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rooms.Cleanup()
			sessions.Cleanup()
			ipLimiter.Cleanup()
		}
	}
}
