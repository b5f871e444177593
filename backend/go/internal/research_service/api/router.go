package api

import (
	"ResearchHub/backend/go/internal/config"
	"ResearchHub/backend/go/pkg/logger"
	"ResearchHub/backend/go/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置和返回一个 Gin 引擎实例。
func SetupRouter(h *Handler, cfg *config.AppConfig, log *logger.Logger) *gin.Engine {
	// 使用默认中间件 (logger, recovery) 创建一个 Gin 引擎。
	r := gin.Default()
	r.Use(RequestLoggerMiddleware(log))

	r.GET("/healthz", h.Healthz)

	// 使用 v1 版本对 API 进行分组
	apiV1 := r.Group("/api/v1")
	{
		docs := apiV1.Group("/documents")
		{
			upload := docs.Group("")
			if rl := cfg.Middleware.RateLimiter; rl.Enabled {
				upload.Use(RateLimitMiddleware(ratelimiter.NewTokenBucket(rl.Rate, rl.Capacity)))
			}
			upload.POST("/upload", h.UploadDocuments)

			docs.GET("", h.ListDocuments)
			docs.GET("/:id", h.GetDocument)
			docs.DELETE("/:id", h.DeleteDocument)
			docs.POST("/:id/regenerate", h.RegenerateAnalysis)
			docs.GET("/:id/file", h.DownloadFile)
			docs.POST("/:id/notes", h.AddNote)
			docs.POST("/:id/tags", h.AddTag)
			docs.POST("/:id/links", h.LinkDocuments)
		}

		apiV1.GET("/search", h.SearchDocuments)
		apiV1.GET("/tags", h.GetAllTags)
	}

	return r
}
