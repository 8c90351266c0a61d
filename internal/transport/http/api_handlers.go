package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/heetpatel0310/Chat-Clone-App/internal/session"
)

const (
	sessionCookie = "session_id"
	sessionMaxAge = 86400 // one day, matching the original web client
)

// APIHandlers provides HTTP handlers for the web API endpoints.
type APIHandlers struct {
	gateway  ChatGateway
	sessions *session.Store
	log      *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(gw ChatGateway, sessions *session.Store, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		gateway:  gw,
		sessions: sessions,
		log:      logger,
	}
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// SendMessageRequest represents the send-message request body.
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// WhoAmIResponse represents the logged-in identity.
type WhoAmIResponse struct {
	Username string `json:"username"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Login creates a session for the given username and sets the session cookie.
// POST /api/login
func (h *APIHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, gin.H{})
		return
	}

	token := h.sessions.Create(req.Username)
	c.SetCookie(sessionCookie, token, sessionMaxAge, "/", "", false, true)

	h.log.Info().Str("username", req.Username).Msg("user logged in")
	c.JSON(http.StatusOK, gin.H{})
}

// Logout destroys the caller's session and clears the cookie.
// DELETE /api/login
func (h *APIHandlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		h.sessions.Destroy(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{})
}

// CheckLogin reports the logged-in username, or 401 when no session exists.
// GET /api/login
func (h *APIHandlers) CheckLogin(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{})
		return
	}
	username, ok := h.sessions.Lookup(token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{})
		return
	}
	c.JSON(http.StatusOK, WhoAmIResponse{Username: username})
}

// ListMessages fetches messages newer than the "last" query parameter from
// the chat server.
// GET /api/messages?last=N
func (h *APIHandlers) ListMessages(c *gin.Context) {
	lastID, err := strconv.ParseInt(c.DefaultQuery("last", "0"), 10, 64)
	if err != nil || lastID < 0 {
		lastID = 0
	}

	messages, err := h.gateway.FetchSince(lastID)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to fetch messages from chat server")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Chat server is unavailable."})
		return
	}

	c.JSON(http.StatusOK, toMessagePayloads(messages))
}

// SendMessage publishes a message on behalf of the logged-in user.
// POST /api/messages
func (h *APIHandlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid send message request")
		c.JSON(http.StatusBadRequest, gin.H{})
		return
	}

	username := c.GetString(ContextKeyUsername)
	ok, err := h.gateway.Send(username, req.Message)
	if err != nil || !ok {
		h.log.Warn().Err(err).Str("username", username).Msg("failed to send message to chat server")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Failed to send message to chat server."})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// DeleteMessage deletes a message owned by the logged-in user.
// DELETE /api/messages/:id
func (h *APIHandlers) DeleteMessage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{})
		return
	}

	username := c.GetString(ContextKeyUsername)
	ok, err := h.gateway.Delete(id, username)
	if err != nil || !ok {
		c.JSON(http.StatusForbidden, gin.H{})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
