package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	buildinfo "github.com/killallgit/corpus-api/pkg/version"
)

// Get handles version requests
// @Summary      Service version
// @Description  Build information of the running server
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /version [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := buildinfo.Get()
		c.JSON(http.StatusOK, gin.H{
			"name":        info.Name,
			"version":     info.Version,
			"git_commit":  info.GitCommit,
			"build_time":  info.BuildTime,
			"go_version":  info.GoVersion,
			"description": "Audio and annotation corpus upload service",
			"status":      "running",
		})
	}
}
