package api

import (
	"ResearchHub/backend/go/internal/models"
	"ResearchHub/backend/go/pkg/logger"
	"ResearchHub/backend/go/pkg/ratelimiter"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware 用令牌桶限流保护上传接口，桶空时返回 429。
func RateLimitMiddleware(limiter ratelimiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			return
		}
		c.Next()
	}
}

// RequestLoggerMiddleware 为每个请求记录一条结构化日志。
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		log.WithRequest(models.RequestInfo{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			RemoteAddr: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}).WithPayload(map[string]interface{}{
			"status": c.Writer.Status(),
		}).Info("请求完成")
	}
}
