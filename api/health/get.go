package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/corpus-api/api/types"
	buildinfo "github.com/killallgit/corpus-api/pkg/version"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Database connectivity and record table sizes
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      503 {object} map[string]interface{}
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"status":    "healthy",
			"version":   buildinfo.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}

		dbStatus, ok := getDatabaseStatus(c, deps)
		response["database"] = dbStatus
		if !ok {
			response["status"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// getDatabaseStatus returns the database connection status and whether it is usable
func getDatabaseStatus(c *gin.Context, deps *types.Dependencies) (gin.H, bool) {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured", "connected": false}, true
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "error", "connected": false, "error": err.Error()}, false
	}

	status := gin.H{"status": "connected", "connected": true}
	if stats, err := deps.DB.Stats(c.Request.Context()); err == nil {
		tables := gin.H{}
		for _, stat := range stats {
			tables[stat.Name] = stat.Rows
		}
		status["records"] = tables
	}
	return status, true
}
