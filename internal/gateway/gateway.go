package gateway

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/heetpatel0310/Chat-Clone-App/internal/chat"
	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
)

// ErrUnavailable reports that the chat server could not be reached or did not
// complete the handshake within the configured timeout. Calls are never
// retried internally; the HTTP layer surfaces this as service-unavailable.
var ErrUnavailable = errors.New("chat server unavailable")

// Client bridges stateless API calls onto the chat server's line protocol.
// Every call opens a fresh connection, identifies as the bridge username,
// issues exactly one command, and closes the connection. No connection or
// session state survives between calls.
type Client struct {
	addr            string
	dialTimeout     time.Duration
	promptTimeout   time.Duration
	responseTimeout time.Duration
	log             *zerolog.Logger
}

// NewClient builds a gateway client for the chat server at addr.
func NewClient(addr string, dialTimeout, promptTimeout, responseTimeout time.Duration, logger *zerolog.Logger) *Client {
	return &Client{
		addr:            addr,
		dialTimeout:     dialTimeout,
		promptTimeout:   promptTimeout,
		responseTimeout: responseTimeout,
		log:             logger,
	}
}

// FetchSince retrieves all messages with id greater than lastID. The response
// has no length framing: bytes are accumulated until the server closes the
// connection or the response timeout elapses.
func (c *Client) FetchSince(lastID int64) ([]store.Message, error) {
	conn, err := c.open(fmt.Sprintf("GET_MESSAGES %d\n", lastID))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	data, err := c.readUntilClose(conn)
	if err != nil {
		return nil, fmt.Errorf("read messages response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []store.Message{}, nil
	}

	var messages []store.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode messages response: %w", err)
	}
	return messages, nil
}

// Send publishes a message under the given author. It reports whether the
// chat server acknowledged with SUCCESS.
func (c *Client) Send(author, text string) (bool, error) {
	return c.commandExpectingAck(fmt.Sprintf("SEND_MESSAGE %s %s\n", author, text))
}

// Delete removes a message if the requester owns it. It reports whether the
// chat server acknowledged with SUCCESS.
func (c *Client) Delete(id int64, requester string) (bool, error) {
	return c.commandExpectingAck(fmt.Sprintf("DELETE_MESSAGE %d %s\n", id, requester))
}

func (c *Client) commandExpectingAck(command string) (bool, error) {
	conn, err := c.open(command)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	response, err := c.readLine(conn)
	if err != nil {
		return false, fmt.Errorf("read acknowledgment: %w", err)
	}

	c.log.Debug().Str("response", response).Msg("chat server acknowledgment")
	return response == "SUCCESS", nil
}

// open dials the chat server, waits for the username prompt, identifies as
// the bridge client, and writes the single command line. The caller owns the
// returned connection and must close it.
func (c *Client) open(command string) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.dialTimeout)
	if err != nil {
		c.log.Warn().Err(err).Str("addr", c.addr).Msg("failed to dial chat server")
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, c.addr)
	}

	if err := c.awaitPrompt(conn); err != nil {
		conn.Close()
		c.log.Warn().Err(err).Msg("no username prompt from chat server")
		return nil, fmt.Errorf("%w: no username prompt", ErrUnavailable)
	}

	if _, err := conn.Write([]byte(chat.BridgeUsername + "\n")); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send bridge identity: %w", err)
	}
	if _, err := conn.Write([]byte(command)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send command: %w", err)
	}

	return conn, nil
}

// awaitPrompt accumulates inbound bytes until the literal prompt appears or
// the prompt timeout elapses.
func (c *Client) awaitPrompt(conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(c.promptTimeout)); err != nil {
		return err
	}
	defer conn.SetReadDeadline(time.Time{})

	prompt := []byte(strings.TrimSuffix(chat.UsernamePrompt, "\n"))
	var data []byte
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			if bytes.Contains(data, prompt) {
				return nil
			}
		}
		if err != nil {
			return err
		}
	}
}

func (c *Client) readUntilClose(conn net.Conn) ([]byte, error) {
	if err := conn.SetReadDeadline(time.Now().Add(c.responseTimeout)); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(conn)
	if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		return nil, err
	}
	return data, nil
}

func (c *Client) readLine(conn net.Conn) (string, error) {
	if err := conn.SetReadDeadline(time.Now().Add(c.responseTimeout)); err != nil {
		return "", err
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
