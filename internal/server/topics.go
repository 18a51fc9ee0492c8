package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/romizzidiamly/vocabmaster/internal/excel"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

const noVocabularyMessage = "No vocabulary found. Make sure the sheet has 'Word' and 'Synonyms' columns."

type CreateTopicRequest struct {
	Name  string             `json:"name" binding:"required"`
	Items []models.VocabItem `json:"items"`
}

// ExtractResponse is the preview shown before a topic is saved
type ExtractResponse struct {
	Name        string             `json:"name"`
	Items       []models.VocabItem `json:"items"`
	Sheet       string             `json:"sheet,omitempty"`
	HeaderRow   int                `json:"headerRow"`
	Fallback    bool               `json:"fallback"`
	RowsScanned int                `json:"rowsScanned"`
	Skipped     int                `json:"skipped"`
	Message     string             `json:"message,omitempty"`
}

func (s *Server) listTopics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": s.engine.Topics()})
}

// createTopic saves a confirmed preview. With a session header the caller's
// session moves to the preview phase of the new topic.
func (s *Server) createTopic(c *gin.Context) {
	var req CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}

	topic, err := s.addTopic(c, req.Name, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

func (s *Server) deleteTopic(c *gin.Context) {
	if !s.engine.DeleteTopic(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) extract(c *gin.Context) {
	filename, result, ok := s.importUpload(c)
	if !ok {
		return
	}

	resp := ExtractResponse{
		Name:        excel.TopicNameFromFile(filename),
		Items:       result.Items,
		Sheet:       result.SheetName,
		HeaderRow:   result.Layout.HeaderRow,
		Fallback:    result.Layout.Fallback,
		RowsScanned: result.RowsScanned,
		Skipped:     result.Skipped,
	}
	if result.Empty() {
		resp.Message = noVocabularyMessage
	}
	c.JSON(http.StatusOK, resp)
}

// uploadTopic extracts a file and saves it in one step
func (s *Server) uploadTopic(c *gin.Context) {
	filename, result, ok := s.importUpload(c)
	if !ok {
		return
	}
	if result.Empty() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": noVocabularyMessage})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = excel.TopicNameFromFile(filename)
	}

	topic, err := s.addTopic(c, name, result.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

func (s *Server) importUpload(c *gin.Context) (string, *excel.ImportResult, bool) {
	if s.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return "", nil, false
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return "", nil, false
	}
	defer file.Close()

	result, err := excel.Import(file, header.Filename)
	if err != nil {
		respondError(c, err)
		return "", nil, false
	}

	s.log.Info("spreadsheet imported",
		"file", header.Filename,
		"items", len(result.Items),
		"rows", result.RowsScanned,
		"skipped", result.Skipped,
		"fallback", result.Layout.Fallback,
	)
	return header.Filename, result, true
}

func (s *Server) addTopic(c *gin.Context, name string, items []models.VocabItem) (models.Topic, error) {
	if key := strings.TrimSpace(c.GetHeader(SessionHeader)); key != "" {
		return s.engine.Session(key).AddTopic(name, items)
	}
	return s.engine.AddTopic(name, items)
}
