package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/heetpatel0310/Chat-Clone-App/internal/session"
)

// ContextKeyUsername is the context key for the logged-in username.
const ContextKeyUsername = "username"

// SessionAuth creates a middleware that resolves the session cookie to a
// username and rejects unauthenticated requests.
func SessionAuth(sessions *session.Store, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil {
			logger.Debug().Msg("missing session cookie")
			c.JSON(http.StatusUnauthorized, gin.H{})
			c.Abort()
			return
		}

		username, ok := sessions.Lookup(token)
		if !ok {
			logger.Debug().Msg("unknown session token")
			c.JSON(http.StatusUnauthorized, gin.H{})
			c.Abort()
			return
		}

		c.Set(ContextKeyUsername, username)
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
