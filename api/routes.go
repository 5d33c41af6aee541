package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/videodiary/diary-api/api/health"
	"github.com/videodiary/diary-api/api/sources"
	"github.com/videodiary/diary-api/api/types"
	"github.com/videodiary/diary-api/api/version"
	"github.com/videodiary/diary-api/api/videos"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return fmt.Errorf("handler dependencies are required")
	}

	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	// Video mutations run a full trim pipeline, so the write limit is
	// deliberately tight; reads get a higher allowance for list
	// polling and search-as-you-type.
	videoGroup := v1.Group("/videos")
	readMiddleware := PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20)
	writeMiddleware := PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 2, 4)
	videos.RegisterRoutes(videoGroup, deps, readMiddleware, writeMiddleware)

	// Source validation probes a file with ffprobe; keep it modest
	sourceGroup := v1.Group("/sources")
	sourceGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 5, 10))
	sources.RegisterRoutes(sourceGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
