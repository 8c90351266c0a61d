package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
)

const (
	// UsernamePrompt is the literal byte sequence sent to every client on connect.
	UsernamePrompt = "Enter your username:\n"
	// BridgeUsername is the reserved identity that switches a session into
	// single-shot bridge mode.
	BridgeUsername = "__WebClient__"

	responseSuccess = "SUCCESS\n"
	responseFail    = "FAIL\n"
	responseInvalid = "INVALID_COMMAND\n"
)

// Session drives one accepted connection through the protocol state machine:
// identity handshake, then either the long-lived human loop or a single
// bridge command, then close.
type Session struct {
	conn             net.Conn
	reader           *bufio.Reader
	store            store.MessageStore
	registry         *Registry
	broadcaster      *Broadcaster
	handshakeTimeout time.Duration
	log              zerolog.Logger
}

func newSession(conn net.Conn, st store.MessageStore, registry *Registry, broadcaster *Broadcaster, handshakeTimeout time.Duration, logger *zerolog.Logger) *Session {
	return &Session{
		conn:             conn,
		reader:           bufio.NewReader(conn),
		store:            st,
		registry:         registry,
		broadcaster:      broadcaster,
		handshakeTimeout: handshakeTimeout,
		log:              logger.With().Str("remote", conn.RemoteAddr().String()).Logger(),
	}
}

// Run executes the session until it reaches the closed state. The connection
// is always closed on return; errors are contained to this session.
func (s *Session) Run(ctx context.Context) {
	defer s.conn.Close()

	if _, err := s.conn.Write([]byte(UsernamePrompt)); err != nil {
		s.log.Debug().Err(err).Msg("failed to send username prompt")
		return
	}

	username, err := s.awaitIdentity()
	if err != nil {
		s.log.Debug().Err(err).Msg("client disconnected before identifying")
		return
	}

	if username == BridgeUsername {
		s.log.Debug().Msg("bridge client connected")
		s.runBridgeCommand(ctx)
		return
	}

	s.log.Info().Str("username", username).Msg("user connected")
	s.runHumanLoop(ctx, username)
	s.log.Info().Str("username", username).Msg("user disconnected")
}

// awaitIdentity reads the identity line within a bounded window. Empty lines
// are discarded; the first non-empty trimmed line becomes the identity.
func (s *Session) awaitIdentity() (string, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.handshakeTimeout)); err != nil {
		return "", fmt.Errorf("set handshake deadline: %w", err)
	}
	defer s.conn.SetReadDeadline(time.Time{})

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read identity line: %w", err)
		}
		if username := strings.TrimSpace(line); username != "" {
			return username, nil
		}
	}
}

// runHumanLoop registers the participant, replays the full backlog, then
// publishes each non-empty line until quit, disconnect, or error. The
// participant is unregistered unconditionally on exit.
func (s *Session) runHumanLoop(ctx context.Context, username string) {
	participant := NewParticipant(username, s.conn)
	s.registry.Add(participant)
	defer s.registry.Remove(participant)

	backlog, err := s.store.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load backlog")
		return
	}
	for _, msg := range backlog {
		if err := participant.Send(fmt.Sprintf("%s: %s\n", msg.Username, msg.Text)); err != nil {
			s.log.Debug().Err(err).Msg("client disconnected during backlog delivery")
			return
		}
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.log.Debug().Err(err).Msg("read error in human loop")
			}
			return
		}

		text := strings.TrimSpace(line)
		if strings.EqualFold(text, "quit") {
			return
		}
		if text == "" {
			continue
		}

		if err := s.broadcaster.Publish(ctx, username, text); err != nil {
			s.log.Error().Err(err).Str("username", username).Msg("failed to publish message")
			return
		}
	}
}

// runBridgeCommand reads exactly one command line, executes it, writes exactly
// one response, and returns. Whatever follows on the wire is ignored.
func (s *Session) runBridgeCommand(ctx context.Context) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		s.log.Debug().Err(err).Msg("bridge client disconnected before sending a command")
		return
	}

	command := strings.TrimSpace(line)
	s.log.Debug().Str("command", command).Msg("bridge command received")

	fields := strings.Fields(command)
	if len(fields) == 0 {
		s.respond(responseInvalid)
		return
	}

	switch fields[0] {
	case "GET_MESSAGES":
		s.handleGetMessages(ctx, fields)
	case "DELETE_MESSAGE":
		s.handleDeleteMessage(ctx, fields)
	case "SEND_MESSAGE":
		s.handleSendMessage(ctx, command)
	default:
		s.respond(responseInvalid)
	}
}

func (s *Session) handleGetMessages(ctx context.Context, fields []string) {
	if len(fields) != 2 {
		s.respond(responseInvalid)
		return
	}
	lastID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || lastID < 0 {
		s.respond(responseInvalid)
		return
	}

	messages, err := s.store.ListSince(ctx, lastID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list messages for bridge client")
		return
	}
	if messages == nil {
		messages = []store.Message{}
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode messages")
		return
	}
	s.respond(string(payload))
}

func (s *Session) handleDeleteMessage(ctx context.Context, fields []string) {
	if len(fields) != 3 {
		s.respond(responseInvalid)
		return
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		s.respond(responseInvalid)
		return
	}

	requester := fields[2]
	deleted, err := s.store.DeleteIfOwnedBy(ctx, id, requester)
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("delete failed")
		return
	}

	if deleted {
		s.log.Info().Int64("id", id).Str("requester", requester).Msg("message deleted")
		s.respond(responseSuccess)
	} else {
		s.respond(responseFail)
	}
}

func (s *Session) handleSendMessage(ctx context.Context, command string) {
	// The message text is everything after the second space, spaces included.
	parts := strings.SplitN(command, " ", 3)
	if len(parts) != 3 {
		s.respond(responseInvalid)
		return
	}

	author, text := parts[1], parts[2]
	if err := s.broadcaster.Publish(ctx, author, text); err != nil {
		s.log.Error().Err(err).Str("author", author).Msg("failed to publish bridge message")
		return
	}
	s.respond(responseSuccess)
}

func (s *Session) respond(payload string) {
	if _, err := s.conn.Write([]byte(payload)); err != nil {
		s.log.Debug().Err(err).Msg("failed to write bridge response")
	}
}
