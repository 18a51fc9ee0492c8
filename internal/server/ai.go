package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/romizzidiamly/vocabmaster/internal/ai"
)

type EnrichRequest struct {
	Word string `json:"word" binding:"required"`
}

// enrich proxies a single word to the enrichment provider
func (s *Server) enrich(c *gin.Context) {
	var req EnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "word is required")
		return
	}
	if s.enricher == nil {
		respondError(c, ai.ErrMissingCredentials)
		return
	}

	result, err := s.enricher.Enrich(c.Request.Context(), req.Word)
	if err != nil {
		s.log.Warn("enrichment request failed", "word", req.Word, "kind", ai.Kind(err), "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
