// Package api exposes graph builds over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter mounts the handler's routes behind logging, recovery and CORS.
func NewRouter(h *Handler, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/graph", h.GetGraph)
		api.POST("/graph", h.PostGraph)
		api.POST("/graph/build", h.BuildGraph)
	}

	return router
}
