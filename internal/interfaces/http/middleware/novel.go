package middleware

import (
	"github.com/gin-gonic/gin"

	"z-novel-reader-api/pkg/logger"
)

// NovelContext 将路径参数 nid 写入日志上下文
func NovelContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if novelID := c.Param("nid"); novelID != "" {
			SetNovelID(c, novelID)
		}
		c.Next()
	}
}

// SetNovelID 把小说 ID 注入请求 context，之后的日志都带 novel_id
func SetNovelID(c *gin.Context, novelID string) {
	ctx := logger.WithContext(c.Request.Context(), logger.NovelIDKey, novelID)
	c.Request = c.Request.WithContext(ctx)
}
