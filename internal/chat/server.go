package chat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
)

// Server accepts TCP connections and runs one Session per connection.
// The registry is owned by the server instance; there is no ambient state,
// so multiple servers can coexist in one process.
type Server struct {
	addr             string
	store            store.MessageStore
	registry         *Registry
	broadcaster      *Broadcaster
	handshakeTimeout time.Duration
	log              *zerolog.Logger
}

// NewServer builds a chat server around the given store.
func NewServer(addr string, st store.MessageStore, handshakeTimeout time.Duration, logger *zerolog.Logger) *Server {
	registry := NewRegistry()
	return &Server{
		addr:             addr,
		store:            st,
		registry:         registry,
		broadcaster:      NewBroadcaster(st, registry, logger),
		handshakeTimeout: handshakeTimeout,
		log:              logger,
	}
}

// Registry exposes the server's participant registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections from the listener until ctx is cancelled. Each
// accepted connection gets its own goroutine; the accept loop never blocks on
// a client. Cancellation closes the listener and abandons in-flight sessions.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.log.Info().Str("addr", listener.Addr().String()).Msg("chat server listening")

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		session := newSession(conn, s.store, s.registry, s.broadcaster, s.handshakeTimeout, s.log)
		go session.Run(ctx)
	}
}
