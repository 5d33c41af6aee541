package videos

import (
	"github.com/gin-gonic/gin"

	"github.com/videodiary/diary-api/api/types"
)

// RegisterRoutes registers video diary routes. Reads and writes get
// separate rate limiting middleware.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, readLimit, writeLimit gin.HandlerFunc) {
	router.GET("", readLimit, List(deps))
	router.GET("/:id", readLimit, Get(deps))

	router.POST("", writeLimit, Create(deps))
	router.PUT("/:id", writeLimit, Update(deps))
	router.DELETE("/:id", writeLimit, Delete(deps))
}
