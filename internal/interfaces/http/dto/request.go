// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// BindNovelID 从 URI 绑定小说 ID
func BindNovelID(c *gin.Context) string {
	return c.Param("nid")
}

// BindVolumeID 从 URI 绑定卷 ID
func BindVolumeID(c *gin.Context) string {
	return c.Param("vid")
}

// BindChapterID 从 URI 绑定章节 ID
func BindChapterID(c *gin.Context) string {
	return c.Param("cid")
}

// BindCommentID 从 URI 绑定评论 ID
func BindCommentID(c *gin.Context) string {
	return c.Param("cmid")
}

// BindReplyID 从 URI 绑定回复 ID
func BindReplyID(c *gin.Context) string {
	return c.Param("rid")
}

// BindBookmarkID 从 URI 绑定书签 ID
func BindBookmarkID(c *gin.Context) string {
	return c.Param("bid")
}

// BindLimit 读取 limit 查询参数，缺失或非法时返回默认值，并限制在 [1, maxVal]
func BindLimit(c *gin.Context, defaultVal, maxVal int) int {
	limit := parseIntWithDefault(c.Query("limit"), defaultVal)
	if limit < 1 {
		limit = defaultVal
	}
	if maxVal > 0 && limit > maxVal {
		limit = maxVal
	}
	return limit
}

// parseIntWithDefault 解析整数，失败时返回默认值
func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
