package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-sse-channel/internal/infrastructure/channel"
	"go-sse-channel/internal/infrastructure/logger"
)

// ChannelHandler exposes the channel control operations over REST:
// publish, retry, close and registry introspection.
type ChannelHandler struct {
	channel *channel.Channel
	logger  logger.Logger
}

type PublishRequest struct {
	Event   string   `json:"event"`
	ID      string   `json:"id"`
	Retry   int      `json:"retry"`
	Data    any      `json:"data"`
	Targets []string `json:"targets"`
}

type RetryRequest struct {
	IntervalMS int `json:"interval_ms" binding:"required,min=1"`
}

func NewChannelHandler(ch *channel.Channel, log logger.Logger) *ChannelHandler {
	return &ChannelHandler{
		channel: ch,
		logger:  log.WithField("handler", "channel"),
	}
}

// Publish fans a message out to all connections, or to the request's
// explicit targets. Target identifiers with no open connection are
// skipped, matching the channel's own semantics.
func (h *ChannelHandler) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("invalid publish request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message format"})
		return
	}

	msg := &channel.Message{
		ID:    req.ID,
		Event: req.Event,
		Retry: req.Retry,
		Data:  req.Data,
	}
	h.channel.Publish(msg, req.Targets...)

	c.JSON(http.StatusOK, gin.H{
		"status":      "published",
		"connections": h.channel.ConnectionCount(),
	})
}

// Retry sets the client reconnect delay, pushing it to open streams.
func (h *ChannelHandler) Retry(c *gin.Context) {
	var req RetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval_ms must be a positive integer"})
		return
	}

	h.channel.Retry(req.IntervalMS)
	c.JSON(http.StatusOK, gin.H{
		"status":      "retry interval set",
		"interval_ms": req.IntervalMS,
	})
}

// Close terminates every open connection. The channel stays usable.
func (h *ChannelHandler) Close(c *gin.Context) {
	h.channel.Close()
	c.JSON(http.StatusOK, gin.H{
		"status":      "closed",
		"connections": h.channel.ConnectionCount(),
	})
}

// Connections lists the open connection identifiers in the order they
// were registered.
func (h *ChannelHandler) Connections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_connections": h.channel.ConnectionCount(),
		"connection_ids":    h.channel.ConnectionIDs(),
	})
}
