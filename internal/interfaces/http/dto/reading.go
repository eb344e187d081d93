package dto

import (
	"z-novel-reader-api/internal/domain/entity"
)

// SaveProgressRequest 保存阅读进度请求
type SaveProgressRequest struct {
	NovelID   string `json:"novelId" binding:"required"`
	VolumeID  string `json:"volumeId" binding:"required"`
	ChapterID string `json:"chapterId" binding:"required"`
	Position  *int64 `json:"position" binding:"required"`
}

// RecentlyReadResponse 最近阅读书架响应
type RecentlyReadResponse struct {
	Items []*entity.CompositeView `json:"items"`
}

// SaveBookmarkRequest 保存书签请求；id 为空时新建
type SaveBookmarkRequest struct {
	ID        string `json:"id,omitempty"`
	NovelID   string `json:"novelId" binding:"required"`
	VolumeID  string `json:"volumeId"`
	ChapterID string `json:"chapterId" binding:"required"`
	Position  int64  `json:"position"`
}

// ToInput 转换为书签输入
func (r *SaveBookmarkRequest) ToInput() entity.BookmarkInput {
	return entity.BookmarkInput{
		BookmarkID: r.ID,
		NovelID:    r.NovelID,
		VolumeID:   r.VolumeID,
		ChapterID:  r.ChapterID,
		Position:   r.Position,
	}
}
