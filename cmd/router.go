package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-sse-channel/internal/infrastructure/channel"
	"go-sse-channel/internal/infrastructure/logger"
	"go-sse-channel/internal/interfaces/rest/v1/handler"
	"go-sse-channel/internal/interfaces/sse"
)

func InitRouter(ch *channel.Channel, log logger.Logger) http.Handler {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Cache-Control, Last-Event-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	rootGroup := router.Group("")

	rootGroup.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"connections": ch.ConnectionCount(),
		})
	})

	rootGroup.GET("/metrics", gin.WrapH(promhttp.Handler()))

	channelHandler := handler.NewChannelHandler(ch, log)
	apiGroup := rootGroup.Group("/api/v1/channel")
	{
		apiGroup.POST("/publish", channelHandler.Publish)
		apiGroup.POST("/retry", channelHandler.Retry)
		apiGroup.POST("/close", channelHandler.Close)
		apiGroup.GET("/connections", channelHandler.Connections)
	}

	sse.InitRouter(log, ch, rootGroup)

	return router
}
