package chat

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heetpatel0310/Chat-Clone-App/internal/log"
	"github.com/heetpatel0310/Chat-Clone-App/internal/store/sqlite"
)

func startTestServer(t *testing.T, handshakeTimeout time.Duration) (*Server, string, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := NewServer("127.0.0.1:0", st, handshakeTimeout, log.Nop())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx, listener)

	return srv, listener.Addr().String(), st
}

// dialAndIdentify connects, consumes the username prompt, and answers it.
func dialAndIdentify(t *testing.T, addr, username string) (net.Conn, *bufio.Reader) {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	reader := bufio.NewReader(conn)
	prompt := readLineWithin(t, conn, reader, 2*time.Second)
	require.Equal(t, "Enter your username:", prompt)

	_, err = fmt.Fprintf(conn, "%s\n", username)
	require.NoError(t, err)

	return conn, reader
}

func readLineWithin(t *testing.T, conn net.Conn, reader *bufio.Reader, timeout time.Duration) string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	defer conn.SetReadDeadline(time.Time{})

	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

// expectSilence asserts that no line arrives on the connection within the window.
func expectSilence(t *testing.T, conn net.Conn, reader *bufio.Reader, window time.Duration) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(window)))
	defer conn.SetReadDeadline(time.Time{})

	line, err := reader.ReadString('\n')
	if err == nil {
		t.Fatalf("expected no data, received %q", line)
	}
	netErr, ok := err.(net.Error)
	require.True(t, ok, "expected a timeout, got %v", err)
	require.True(t, netErr.Timeout(), "expected a timeout, got %v", err)
}

func waitForParticipants(t *testing.T, srv *Server, count int) {
	t.Helper()

	require.Eventually(t, func() bool {
		return srv.Registry().Len() == count
	}, 2*time.Second, 10*time.Millisecond, "expected %d registered participants", count)
}
