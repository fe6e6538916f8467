package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Logger 以 zap 記錄請求信息的中間件
func Logger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.With(zap.String("component", "http"))

	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("clientIP", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.RequestURI),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("請求失敗", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("請求被拒絕", fields...)
		default:
			logger.Debug("請求完成", fields...)
		}
	}
}

// Cors 處理跨域請求
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Recovery 從 panic 恢復並記錄日誌
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("請求處理發生 panic",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.RequestURI))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "服務器內部錯誤"})
	})
}

// RateLimit 以 token bucket 限制請求頻率，超出時呼叫 onReject 並返回 429
func RateLimit(limiter *rate.Limiter, onReject func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			if onReject != nil {
				onReject(c)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "請求過於頻繁，請稍後再試"})
			return
		}
		c.Next()
	}
}
