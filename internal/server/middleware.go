package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/romizzidiamly/vocabmaster/internal/auth"
	"github.com/romizzidiamly/vocabmaster/internal/recall"
)

const (
	ctxSession = "session"
	ctxAdmin   = "admin"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.log.Error("request failed", fields...)
			return
		}
		s.log.Debug("request", fields...)
	}
}

// requireAdmin lets the request through with a valid admin token,
// or for everyone when the gate is disabled
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.auth == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": auth.ErrNotConfigured.Error()})
			return
		}
		if s.auth.Disabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := s.auth.Verify(parts[1])
		if errors.Is(err, auth.ErrNotConfigured) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxAdmin, claims.Username)
		c.Next()
	}
}

// withSession resolves the caller's session from SessionHeader, creating one
// when the header is missing. The key is echoed back on every response.
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(SessionHeader))

		var session *recall.Session
		if key == "" {
			key, session = s.engine.NewSession()
		} else {
			session = s.engine.Session(key)
		}

		c.Header(SessionHeader, key)
		c.Set(ctxSession, session)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *recall.Session {
	return c.MustGet(ctxSession).(*recall.Session)
}
