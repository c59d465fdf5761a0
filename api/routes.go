package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/corpus-api/api/health"
	"github.com/killallgit/corpus-api/api/records"
	"github.com/killallgit/corpus-api/api/types"
	"github.com/killallgit/corpus-api/api/uploads"
	"github.com/killallgit/corpus-api/api/version"
	_ "github.com/killallgit/corpus-api/docs/swagger"
)

const defaultUploadSize = 512 << 20

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil || deps.RecordService == nil {
		return fmt.Errorf("record service not configured")
	}
	if deps.Config == nil {
		return fmt.Errorf("config is nil")
	}
	cfg := deps.Config

	// Public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine)

	// Swagger documentation
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	records.RegisterRoutes(engine, deps)

	var limit []gin.HandlerFunc
	if cfg.RateLimiting.Enabled {
		limit = append(limit, PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, cfg.RateLimiting.RPS, cfg.RateLimiting.Burst))
	}

	// Uploads carry whole files and get their own body cap
	uploadSize := cfg.Uploads.MaxUploadSize
	if uploadSize <= 0 {
		uploadSize = defaultUploadSize
	}
	uploadGroup := engine.Group("/")
	uploadGroup.Use(limit...)
	uploadGroup.Use(RequestSizeLimitWithSize(uploadSize))
	uploads.RegisterRoutes(uploadGroup, deps)

	requestSize := cfg.Uploads.MaxRequestSize
	if requestSize <= 0 {
		requestSize = defaultRequestSize
	}
	deleteGroup := engine.Group("/")
	deleteGroup.Use(limit...)
	deleteGroup.Use(RequestSizeLimitWithSize(requestSize))
	records.RegisterDeleteRoutes(deleteGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Status:  types.StatusError,
			Message: "the requested endpoint was not found",
			Error:   fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path),
		})
	}
}
