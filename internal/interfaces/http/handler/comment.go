package handler

import (
	"github.com/gin-gonic/gin"

	"z-novel-reader-api/internal/application/comment"
	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/interfaces/http/dto"
	"z-novel-reader-api/internal/interfaces/http/middleware"
)

// CommentHandler 评论处理器
type CommentHandler struct {
	comments *comment.Service
}

// NewCommentHandler 创建评论处理器
func NewCommentHandler(comments *comment.Service) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func bindChapterRef(c *gin.Context) comment.ChapterRef {
	return comment.ChapterRef{
		NovelID:   dto.BindNovelID(c),
		VolumeID:  dto.BindVolumeID(c),
		ChapterID: dto.BindChapterID(c),
	}
}

func currentAuthor(c *gin.Context) entity.Author {
	id := middleware.CurrentIdentity(c)
	return entity.Author{UserID: id.UserID, Name: id.Name, Avatar: id.Avatar}
}

// ListComments 章节评论列表
// @Summary 章节评论
// @Tags Comments
// @Produce json
// @Param nid path string true "小说 ID"
// @Param vid path string true "卷 ID"
// @Param cid path string true "章节 ID"
// @Success 200 {object} dto.Response[dto.CommentListResponse]
// @Router /v1/novels/{nid}/volumes/{vid}/chapters/{cid}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.comments.ListComments(c.Request.Context(), bindChapterRef(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.CommentListResponse{Comments: comments})
}

// AddComment 发表评论
func (h *CommentHandler) AddComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := h.comments.AddComment(c.Request.Context(), currentAuthor(c), bindChapterRef(c), req.Content)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, created)
}

// AddReply 回复评论
func (h *CommentHandler) AddReply(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := h.comments.AddReply(c.Request.Context(), currentAuthor(c), bindChapterRef(c), dto.BindCommentID(c), req.Content)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, created)
}

// ToggleLike 切换评论或回复的点赞
// @Summary 点赞/取消点赞
// @Tags Comments
// @Produce json
// @Success 200 {object} dto.Response[entity.LikeResult]
// @Router /v1/novels/{nid}/volumes/{vid}/chapters/{cid}/comments/{cmid}/like [post]
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	result, err := h.comments.ToggleLike(c.Request.Context(), currentUserID(c), bindChapterRef(c), dto.BindCommentID(c), dto.BindReplyID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, result)
}
