package dto

import (
	"z-novel-reader-api/internal/domain/entity"
)

// CreateNovelRequest 创建小说请求
type CreateNovelRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Author      string   `json:"author" binding:"max=100"`
	Artist      string   `json:"artist,omitempty" binding:"max=100"`
	Description string   `json:"description,omitempty" binding:"max=5000"`
	Genres      []string `json:"genres,omitempty"`
	Status      string   `json:"status,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
}

// ToInput 转换为创建输入
func (r *CreateNovelRequest) ToInput() entity.NovelInput {
	return entity.NovelInput{
		Title:       r.Title,
		Author:      r.Author,
		Artist:      r.Artist,
		Description: r.Description,
		Genres:      r.Genres,
		Status:      entity.NovelStatus(r.Status),
		CoverURL:    r.CoverURL,
	}
}

// UpdateNovelRequest 更新小说请求，省略的字段保持不变
type UpdateNovelRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,max=200"`
	Author      *string  `json:"author,omitempty"`
	Artist      *string  `json:"artist,omitempty"`
	Description *string  `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Status      *string  `json:"status,omitempty"`
	CoverURL    *string  `json:"cover_url,omitempty"`
}

// ToUpdate 转换为更新输入
func (r *UpdateNovelRequest) ToUpdate() entity.NovelUpdate {
	upd := entity.NovelUpdate{
		Title:       r.Title,
		Author:      r.Author,
		Artist:      r.Artist,
		Description: r.Description,
		Genres:      r.Genres,
		CoverURL:    r.CoverURL,
	}
	if r.Status != nil {
		status := entity.NovelStatus(*r.Status)
		upd.Status = &status
	}
	return upd
}

// NovelListResponse 小说列表响应
type NovelListResponse struct {
	Novels []*entity.Novel `json:"novels"`
}

// CreateVolumeRequest 新增卷请求；volume_number 省略时自动递增
type CreateVolumeRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	VolumeNumber int64  `json:"volume_number,omitempty"`
}

// VolumeListResponse 卷列表响应
type VolumeListResponse struct {
	Volumes []*entity.Volume `json:"volumes"`
}

// ContentsResponse 目录响应
type ContentsResponse struct {
	Volumes []*entity.VolumeWithChapters `json:"volumes"`
}

// CreateChapterRequest 新增章节请求；chapter_number 省略时取卷内下一个序号
type CreateChapterRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	ChapterNumber any    `json:"chapter_number,omitempty"`
	Content       string `json:"content"`
}

// ToInput 转换为章节输入
func (r *CreateChapterRequest) ToInput() entity.ChapterInput {
	return entity.ChapterInput{
		Title:         r.Title,
		ChapterNumber: r.ChapterNumber,
		Content:       r.Content,
	}
}

// GenreListResponse 题材列表响应
type GenreListResponse struct {
	Genres []string `json:"genres"`
}
