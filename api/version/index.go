package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	buildinfo "github.com/killallgit/corpus-api/pkg/version"
)

// Index describes the service and the routes it serves
// @Summary      Service descriptor
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       / [get]
func Index() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    buildinfo.Name,
			"version": buildinfo.Version,
			"docs":    "/docs/index.html",
			"endpoints": []string{
				"POST /upload",
				"POST /upload_text",
				"GET /records",
				"POST /delete_audio",
				"POST /delete_text",
				"GET /health",
				"GET /version",
			},
		})
	}
}
