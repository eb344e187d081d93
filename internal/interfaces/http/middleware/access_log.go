// Package middleware 提供 HTTP 中间件
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"z-novel-reader-api/pkg/logger"
)

// DefaultAccessLogSkipPaths 不记录访问日志的探针路径
var DefaultAccessLogSkipPaths = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}

// AccessLog 访问日志中间件
// 请求结束后输出一条结构化日志，5xx 以 warn 级别记录
func AccessLog(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"user_id", c.GetString(ContextKeyUserID),
			"body_size", c.Writer.Size(),
		}

		if status >= 500 {
			logger.Warn(c.Request.Context(), "api request failed", fields...)
			return
		}
		logger.Info(c.Request.Context(), "api request", fields...)
	}
}
