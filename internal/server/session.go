package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/romizzidiamly/vocabmaster/internal/recall"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

type SelectTopicRequest struct {
	TopicID string `json:"topicId" binding:"required"`
}

// DiscoverRequest accepts either a typed word or an item id
type DiscoverRequest struct {
	Word   string `json:"word"`
	ItemID string `json:"itemId"`
}

type GuessRequest struct {
	Text string `json:"text" binding:"required"`
}

type DiscoverResponse struct {
	Outcome string              `json:"outcome"`
	Message string              `json:"message"`
	Item    *models.VocabItem   `json:"item,omitempty"`
	State   models.SessionState `json:"state"`
}

type GuessResponse struct {
	Correct bool                `json:"correct"`
	State   models.SessionState `json:"state"`
}

func (s *Server) sessionState(c *gin.Context) {
	c.JSON(http.StatusOK, sessionFrom(c).State())
}

func (s *Server) selectTopic(c *gin.Context) {
	var req SelectTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "topicId is required")
		return
	}

	session := sessionFrom(c)
	if err := session.SelectTopic(req.TopicID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (s *Server) confirmPreview(c *gin.Context) {
	session := sessionFrom(c)
	if err := session.ConfirmPreview(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (s *Server) exitToList(c *gin.Context) {
	session := sessionFrom(c)
	session.ExitToList()
	c.JSON(http.StatusOK, session.State())
}

func (s *Server) discover(c *gin.Context) {
	var req DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil || (strings.TrimSpace(req.Word) == "" && req.ItemID == "") {
		badRequest(c, "word or itemId is required")
		return
	}

	session := sessionFrom(c)

	var (
		item    models.VocabItem
		outcome recall.DiscoverOutcome
	)
	if req.ItemID != "" {
		item, outcome = session.Discover(req.ItemID)
	} else {
		item, outcome = session.DiscoverWord(req.Word)
	}

	result := DiscoverResponse{
		Outcome: outcome.String(),
		Message: outcome.Message(item.Word),
	}
	discoveriesTotal.WithLabelValues(result.Outcome).Inc()

	if item.ID != "" {
		result.Item = &item
	}
	result.State = session.State()
	c.JSON(http.StatusOK, result)
}

func (s *Server) guess(c *gin.Context) {
	var req GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text is required")
		return
	}

	session := sessionFrom(c)
	correct := session.GuessSynonym(c.Param("id"), req.Text)
	recordGuess(correct)

	c.JSON(http.StatusOK, GuessResponse{Correct: correct, State: session.State()})
}

func (s *Server) regenerate(c *gin.Context) {
	session := sessionFrom(c)
	if err := session.RegenerateEnrichment(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, session.State())
}

func (s *Server) resetProgress(c *gin.Context) {
	session := sessionFrom(c)
	if err := session.ResetTopicProgress(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}
