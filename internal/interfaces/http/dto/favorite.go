package dto

import (
	"z-novel-reader-api/internal/domain/entity"
)

// BatchFavoriteStatusRequest 批量查询收藏状态请求
type BatchFavoriteStatusRequest struct {
	NovelIDs []string `json:"novel_ids" binding:"max=500"`
}

// BatchFavoriteStatusResponse 批量收藏状态响应
type BatchFavoriteStatusResponse struct {
	Statuses map[string]entity.FavoriteStatus `json:"statuses"`
}

// IsFavoritedResponse 单本收藏状态响应
type IsFavoritedResponse struct {
	NovelID    string `json:"novelId"`
	IsFavorite bool   `json:"isFavorite"`
}

// FavoriteListResponse 收藏书架响应
type FavoriteListResponse struct {
	Novels []*entity.FavoriteNovelView `json:"novels"`
}
