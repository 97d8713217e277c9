package handler

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casestudyai/casestudyai/internal/middleware"
	"github.com/casestudyai/casestudyai/internal/pkg/response"
)

const apiVersion = "1.0.0"

type RouterDeps struct {
	Health *HealthHandler
	Query  *QueryHandler
	Upload *UploadHandler

	// CORSOrigins empty means allow-all (development mode).
	CORSOrigins      []string
	GeminiConfigured bool
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logutil.GetLogger(c.Request.Context()).Error("panic recovered", zap.Any("panic", recovered))
		response.Error(c, http.StatusInternalServerError, "internal", "internal server error, please try again later")
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message":           "CaseStudy AI API",
			"version":           apiVersion,
			"status":            "running",
			"gemini_configured": deps.GeminiConfigured,
			"endpoints": gin.H{
				"health": "/health",
				"query":  "/api/query",
				"upload": "/api/upload",
			},
		})
	})
	router.GET("/health", deps.Health.Check)

	api := router.Group("/api")
	api.POST("/query", deps.Query.Query)
	api.POST("/upload", deps.Upload.Upload)

	return router
}
