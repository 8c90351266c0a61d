package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/heetpatel0310/Chat-Clone-App/internal/config"
	"github.com/heetpatel0310/Chat-Clone-App/internal/session"
	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
)

// ChatGateway is the bridge the web layer uses to talk to the chat server.
// Each call is fully independent; see the gateway package.
type ChatGateway interface {
	FetchSince(lastID int64) ([]store.Message, error)
	Send(author, text string) (bool, error)
	Delete(id int64, requester string) (bool, error)
}

// NewServer builds the web HTTP server: login/session endpoints, the
// messages API bridged to the chat server, and static file serving.
func NewServer(gw ChatGateway, sessions *session.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	h := NewAPIHandlers(gw, sessions, logger)

	router.POST("/api/login", h.Login)
	router.DELETE("/api/login", h.Logout)
	router.GET("/api/login", h.CheckLogin)

	authed := router.Group("/api", SessionAuth(sessions, logger))
	authed.GET("/messages", h.ListMessages)
	authed.POST("/messages", h.SendMessage)
	authed.DELETE("/messages/:id", h.DeleteMessage)

	if cfg.StaticDir != "" {
		// http.FileServer resolves "/" to index.html and rejects path traversal.
		router.NoRoute(gin.WrapH(stdhttp.FileServer(gin.Dir(cfg.StaticDir, false))))
	}

	return &stdhttp.Server{
		Addr:              cfg.WebAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
