package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/heetpatel0310/Chat-Clone-App/internal/chat"
	"github.com/heetpatel0310/Chat-Clone-App/internal/config"
	"github.com/heetpatel0310/Chat-Clone-App/internal/gateway"
	"github.com/heetpatel0310/Chat-Clone-App/internal/session"
	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
	"github.com/heetpatel0310/Chat-Clone-App/internal/store/sqlite"
	transporthttp "github.com/heetpatel0310/Chat-Clone-App/internal/transport/http"
)

// ChatApp wires the message store and the TCP chat server.
type ChatApp struct {
	server *chat.Server
	store  store.MessageStore
	log    *zerolog.Logger
}

// NewChat constructs the chat server application.
func NewChat(cfg *config.Config, logger *zerolog.Logger) (*ChatApp, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	return &ChatApp{
		server: chat.NewServer(cfg.ChatAddr, st, cfg.HandshakeTimeout, logger),
		store:  st,
		log:    logger,
	}, nil
}

// Run serves connections until context cancellation or a fatal accept error.
func (a *ChatApp) Run(ctx context.Context) error {
	err := a.server.ListenAndServe(ctx)
	a.cleanup()
	return err
}

func (a *ChatApp) cleanup() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close store")
	} else {
		a.log.Info().Msg("store closed")
	}
}

// WebApp wires the session store, the chat gateway, and the HTTP server.
type WebApp struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// NewWeb constructs the web bridge application.
func NewWeb(cfg *config.Config, logger *zerolog.Logger) *WebApp {
	gw := gateway.NewClient(cfg.ChatServerAddr, cfg.DialTimeout, cfg.PromptTimeout, cfg.ResponseTimeout, logger)
	sessions := session.NewStore()

	return &WebApp{
		server:          transporthttp.NewServer(gw, sessions, cfg, logger),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *WebApp) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
