package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"readerschat/internal/models"
	"readerschat/internal/rag"
	"readerschat/internal/session"
)

type Handler struct {
	pipeline *rag.Pipeline
	session  *session.Session
}

func NewHandler(pipeline *rag.Pipeline) *Handler {
	return &Handler{pipeline: pipeline, session: pipeline.Session()}
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type historyResponse struct {
	History []models.HistoryEntry `json:"history"`
}

// Upload ingests one .txt document and replaces the queryable index
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}

	summary, err := h.pipeline.Ingest(c.Request.Context(), filepath.Base(fileHeader.Filename), data)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Successfully processed %s", summary.Filename),
		"filename": summary.Filename,
		"chunks":   summary.ChunkCount,
	})
}

// Chat answers one question in blocking mode. Sources are always present in
// the response, empty for greetings; only the streaming transport suppresses
// them.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.pipeline.Answer(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	sources := res.Sources
	if sources == nil {
		sources = []string{}
	}
	c.JSON(http.StatusOK, chatResponse{Answer: res.Answer, Sources: sources})
}

// GetHistory returns the recorded exchanges. With ?format=messages the
// history is flattened into role/content pairs so a client can replay the
// conversation for display.
func (h *Handler) GetHistory(c *gin.Context) {
	history := h.session.History()
	if history == nil {
		history = []models.HistoryEntry{}
	}

	if c.Query("format") == "messages" {
		messages := make([]models.ChatMessage, 0, len(history)*2)
		for _, entry := range history {
			messages = append(messages,
				models.ChatMessage{Role: "user", Content: entry.Question},
				models.ChatMessage{Role: "assistant", Content: entry.Answer},
			)
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
		return
	}

	c.JSON(http.StatusOK, historyResponse{History: history})
}

func (h *Handler) ClearHistory(c *gin.Context) {
	h.session.ClearHistory()
	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

func (h *Handler) Health(c *gin.Context) {
	loaded, historyLength := h.session.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"index_loaded":   loaded,
		"history_length": historyLength,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, rag.ErrUnsupportedFormat),
		errors.Is(err, rag.ErrDecode),
		errors.Is(err, rag.ErrEmptyDocument),
		errors.Is(err, rag.ErrEmptyQuestion),
		errors.Is(err, rag.ErrNoDocument):
		return http.StatusBadRequest
	default:
		log.Error().Err(err).Msg("Pipeline failure")
		return http.StatusInternalServerError
	}
}
