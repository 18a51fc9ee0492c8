package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/romizzidiamly/vocabmaster/internal/ai"
	"github.com/romizzidiamly/vocabmaster/internal/excel"
	"github.com/romizzidiamly/vocabmaster/internal/recall"
)

// statusFor maps domain errors to HTTP statuses
func statusFor(err error) int {
	var upstream *ai.UpstreamError
	switch {
	case errors.Is(err, recall.ErrTopicNotFound), errors.Is(err, recall.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, recall.ErrNoActiveTopic):
		return http.StatusConflict
	case errors.Is(err, recall.ErrEmptyName), errors.Is(err, recall.ErrEmptyTopic),
		errors.Is(err, recall.ErrInvalidItem), errors.Is(err, ai.ErrEmptyWord):
		return http.StatusBadRequest
	case errors.Is(err, excel.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrMissingCredentials):
		return http.StatusInternalServerError
	case errors.Is(err, ai.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ai.ErrMalformedResponse), errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
