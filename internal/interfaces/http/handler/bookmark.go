package handler

import (
	"github.com/gin-gonic/gin"

	"z-novel-reader-api/internal/application/reading"
	"z-novel-reader-api/internal/interfaces/http/dto"
)

// BookmarkHandler 书签处理器
type BookmarkHandler struct {
	bookmarks *reading.BookmarkService
}

// NewBookmarkHandler 创建书签处理器
func NewBookmarkHandler(bookmarks *reading.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// SaveBookmark 新建或更新书签
// @Summary 保存书签
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Param body body dto.SaveBookmarkRequest true "书签"
// @Success 200 {object} dto.Response[entity.Bookmark]
// @Router /v1/me/bookmarks [post]
func (h *BookmarkHandler) SaveBookmark(c *gin.Context) {
	var req dto.SaveBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	bookmark, err := h.bookmarks.SaveBookmark(c.Request.Context(), currentUserID(c), req.ToInput())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, bookmark)
}

// GetBookmark 读取书签
func (h *BookmarkHandler) GetBookmark(c *gin.Context) {
	bookmark, err := h.bookmarks.GetBookmark(c.Request.Context(), currentUserID(c), dto.BindBookmarkID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, bookmark)
}
