package uploads

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/corpus-api/api/types"
)

// RegisterRoutes registers the upload routes
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.POST("/upload", PostAudio(deps))
	router.POST("/upload_text", PostText(deps))
}
