package sse

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-sse-channel/internal/infrastructure/channel"
	"go-sse-channel/internal/infrastructure/logger"
)

// Handler serves the SSE subscribe endpoint for one channel.
type Handler struct {
	channel *channel.Channel
	logger  logger.Logger
}

func NewHandler(ch *channel.Channel, log logger.Logger) *Handler {
	return &Handler{
		channel: ch,
		logger:  log.WithField("handler", "sse"),
	}
}

// Subscribe opens the event stream. The connection identifier comes
// from the id query parameter when the client supplies one; the channel
// generates one otherwise. The handler parks until the channel removes
// the connection or the client goes away.
func (h *Handler) Subscribe(c *gin.Context) {
	conn, added := h.channel.AddConnection(c.Writer, c.Request, c.Query("id"))
	if !added {
		// Identifier already has an open stream; the original wins.
		h.logger.Warnf("duplicate subscribe for connection %s", conn.ID())
		c.Status(http.StatusConflict)
		return
	}

	select {
	case <-conn.Done():
	case <-c.Request.Context().Done():
	}
}
