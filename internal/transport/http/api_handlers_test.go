package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heetpatel0310/Chat-Clone-App/internal/config"
	"github.com/heetpatel0310/Chat-Clone-App/internal/gateway"
	"github.com/heetpatel0310/Chat-Clone-App/internal/log"
	"github.com/heetpatel0310/Chat-Clone-App/internal/session"
	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
)

type stubGateway struct {
	messages []store.Message
	fetchErr error

	sendOK     bool
	sendErr    error
	sentAuthor string
	sentText   string

	deleteOK        bool
	deletedID       int64
	deleteRequester string
}

func (g *stubGateway) FetchSince(lastID int64) ([]store.Message, error) {
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	result := make([]store.Message, 0)
	for _, m := range g.messages {
		if m.ID > lastID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (g *stubGateway) Send(author, text string) (bool, error) {
	g.sentAuthor, g.sentText = author, text
	return g.sendOK, g.sendErr
}

func (g *stubGateway) Delete(id int64, requester string) (bool, error) {
	g.deletedID, g.deleteRequester = id, requester
	return g.deleteOK, nil
}

func newTestServer(t *testing.T, gw ChatGateway) (http.Handler, *session.Store) {
	t.Helper()

	sessions := session.NewStore()
	cfg := config.Config{
		WebAddr:           ":0",
		ReadHeaderTimeout: time.Second,
	}
	server := NewServer(gw, sessions, &cfg, log.Nop())
	return server.Handler, sessions
}

func sessionCookieFor(sessions *session.Store, username string) *http.Cookie {
	return &http.Cookie{Name: sessionCookie, Value: sessions.Create(username)}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	handler, sessions := newTestServer(t, &stubGateway{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, sessionCookie, cookies[0].Name)

	username, ok := sessions.Lookup(cookies[0].Value)
	require.True(t, ok)
	require.Equal(t, "alice", username)
}

func TestLoginRejectsMissingUsername(t *testing.T) {
	handler, _ := newTestServer(t, &stubGateway{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCheckLogin(t *testing.T) {
	handler, sessions := newTestServer(t, &stubGateway{})

	// Without a session cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	// With one.
	req = httptest.NewRequest(http.MethodGet, "/api/login", nil)
	req.AddCookie(sessionCookieFor(sessions, "alice"))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body WhoAmIResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "alice", body.Username)
}

func TestLogoutDestroysSession(t *testing.T) {
	handler, sessions := newTestServer(t, &stubGateway{})
	cookie := sessionCookieFor(sessions, "alice")

	req := httptest.NewRequest(http.MethodDelete, "/api/login", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	_, ok := sessions.Lookup(cookie.Value)
	require.False(t, ok)
}

func TestListMessagesRequiresSession(t *testing.T) {
	handler, _ := newTestServer(t, &stubGateway{})

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListMessages(t *testing.T) {
	gw := &stubGateway{messages: []store.Message{
		{ID: 1, Username: "alice", Text: "hi"},
		{ID: 2, Username: "bob", Text: "yo"},
	}}
	handler, sessions := newTestServer(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/api/messages?last=1", nil)
	req.AddCookie(sessionCookieFor(sessions, "carol"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var payloads []MessagePayload
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payloads))
	require.Len(t, payloads, 1)
	require.Equal(t, "yo", payloads[0].Message)
}

func TestListMessagesUnavailable(t *testing.T) {
	gw := &stubGateway{fetchErr: gateway.ErrUnavailable}
	handler, sessions := newTestServer(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	req.AddCookie(sessionCookieFor(sessions, "carol"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "Chat server is unavailable.", body.Error)
}

func TestSendMessageUsesSessionIdentity(t *testing.T) {
	gw := &stubGateway{sendOK: true}
	handler, sessions := newTestServer(t, gw)

	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewBufferString(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookieFor(sessions, "alice"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "alice", gw.sentAuthor)
	require.Equal(t, "hello", gw.sentText)
}

func TestSendMessageUnavailable(t *testing.T) {
	gw := &stubGateway{sendErr: errors.New("boom")}
	handler, sessions := newTestServer(t, gw)

	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewBufferString(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookieFor(sessions, "alice"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestDeleteMessage(t *testing.T) {
	gw := &stubGateway{deleteOK: true}
	handler, sessions := newTestServer(t, gw)

	req := httptest.NewRequest(http.MethodDelete, "/api/messages/7", nil)
	req.AddCookie(sessionCookieFor(sessions, "alice"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, int64(7), gw.deletedID)
	require.Equal(t, "alice", gw.deleteRequester)
}

func TestDeleteMessageNotOwnedIsForbidden(t *testing.T) {
	gw := &stubGateway{deleteOK: false}
	handler, sessions := newTestServer(t, gw)

	req := httptest.NewRequest(http.MethodDelete, "/api/messages/7", nil)
	req.AddCookie(sessionCookieFor(sessions, "alice"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestDeleteMessageBadID(t *testing.T) {
	handler, sessions := newTestServer(t, &stubGateway{})

	req := httptest.NewRequest(http.MethodDelete, "/api/messages/abc", nil)
	req.AddCookie(sessionCookieFor(sessions, "alice"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}
