package dto

import (
	"z-novel-reader-api/internal/domain/entity"
)

// CreateCommentRequest 发表评论或回复请求
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentListResponse 评论列表响应
type CommentListResponse struct {
	Comments []*entity.Comment `json:"comments"`
}
