package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wichananm65/grocery-list-backend/internal/infrastructure/database"
	"github.com/wichananm65/grocery-list-backend/internal/llm"
	"github.com/wichananm65/grocery-list-backend/internal/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

func newConnector() *database.Connector {
	return database.NewConnector(cfg.DatabaseURL, database.Options{
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MaxIdleTime:    cfg.Database.MaxIdleTime,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		OnConnect:      database.EnsureSchema,
	}, log)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET is not set, using the built-in development secret")
	}
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		log.Warn("Google OAuth credentials are missing, sign-in is disabled")
	}

	conn := newConnector()
	defer conn.Close()

	var model llm.Client
	if cfg.MockAI() {
		log.Info("AI suggestions running in mock mode")
	} else {
		g, err := llm.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return err
		}
		model = g
		log.Info("AI suggestions using Gemini", zap.String("model", g.Model()))
	}

	app := server.New(server.Deps{
		Config: cfg,
		Conn:   conn,
		Model:  model,
		Log:    log,
	})

	// The first request would otherwise pay for the connection.
	go func() {
		if _, err := conn.DB(ctx); err != nil {
			log.Warn("initial database connection failed", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
