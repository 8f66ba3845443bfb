package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/session"
)

// RequestLogger tags every request with an id and writes one access-log
// line on completion.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("reqid", id)

		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

// RequireAuth gates the protected views on presence of a session token
// and a usable user id; the two entries are only ever written together,
// so a lone token is not a session. No round-trip validates freshness
// here; an expired token fails on the first backend call the view makes.
func RequireAuth(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.LooksValid(c) || sessions.UserID(c) == 0 {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
