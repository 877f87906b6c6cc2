package sse

import (
	"github.com/gin-gonic/gin"

	"go-sse-channel/internal/infrastructure/channel"
	"go-sse-channel/internal/infrastructure/logger"
)

// InitRouter mounts the SSE subscribe endpoint on rg.
func InitRouter(log logger.Logger, ch *channel.Channel, rg *gin.RouterGroup) {
	handler := NewHandler(ch, log)
	rg.GET("/sse", handler.Subscribe)
}
