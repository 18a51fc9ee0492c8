package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/romizzidiamly/vocabmaster/internal/auth"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}
	if s.auth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": auth.ErrNotConfigured.Error()})
		return
	}

	token, expires, err := s.auth.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.log.Warn("admin login rejected", "username", req.Username, "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case err != nil:
		respondError(c, err)
	default:
		c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires})
	}
}
