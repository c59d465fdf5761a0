package records

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/corpus-api/api/types"
)

// RegisterRoutes registers the listing route
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.GET("/records", Get(deps))
}

// RegisterDeleteRoutes registers the delete routes
func RegisterDeleteRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.POST("/delete_audio", DeleteAudio(deps))
	router.POST("/delete_text", DeleteText(deps))
}
