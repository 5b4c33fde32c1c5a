package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"readerschat/internal/rag"
)

const (
	eventStart   = "start"
	eventToken   = "token"
	eventEnd     = "end"
	eventSources = "sources"
	eventError   = "error"
)

type wsQuestion struct {
	Question string `json:"question"`
}

type wsEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

type wsSourcesEvent struct {
	Type    string   `json:"type"`
	Sources []string `json:"sources"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatStream serves the streaming chat protocol over one websocket. Questions
// are processed strictly one at a time; per question the client sees
// start, token*, then either end (+ sources for non-greetings) or a terminal
// error event.
func (h *Handler) ChatStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var msg wsQuestion
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("Websocket closed")
			}
			return
		}
		h.serveQuestion(c.Request.Context(), conn, msg.Question)
	}
}

func (h *Handler) serveQuestion(parent context.Context, conn *websocket.Conn, question string) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// a failed write cancels the context so an in-flight generation stops
	// asking the completion service for more tokens
	send := func(v any) error {
		if err := conn.WriteJSON(v); err != nil {
			cancel()
			return err
		}
		return nil
	}

	question = strings.TrimSpace(question)
	if question == "" {
		_ = send(wsEvent{Type: eventError, Content: rag.ErrEmptyQuestion.Error()})
		return
	}
	if loaded, _ := h.session.Stats(); !loaded {
		_ = send(wsEvent{Type: eventError, Content: rag.ErrNoDocument.Error()})
		return
	}

	if err := send(wsEvent{Type: eventStart}); err != nil {
		return
	}

	res, err := h.pipeline.AnswerStream(ctx, question, func(token string) error {
		return send(wsEvent{Type: eventToken, Content: token})
	})
	if err != nil {
		// terminal for this question; the read loop stays open for the next one
		_ = send(wsEvent{Type: eventError, Content: err.Error()})
		return
	}

	if err := send(wsEvent{Type: eventEnd}); err != nil {
		return
	}
	if !res.Greeting {
		sources := res.Sources
		if sources == nil {
			sources = []string{}
		}
		_ = send(wsSourcesEvent{Type: eventSources, Sources: sources})
	}
}
