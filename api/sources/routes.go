package sources

import (
	"github.com/gin-gonic/gin"

	"github.com/videodiary/diary-api/api/types"
)

// RegisterRoutes registers source validation routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("/validate", Validate(deps))
}
