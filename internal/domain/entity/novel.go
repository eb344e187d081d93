package entity

import (
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

// NovelStatus 小说连载状态
type NovelStatus string

const (
	NovelStatusOngoing   NovelStatus = "ongoing"
	NovelStatusCompleted NovelStatus = "completed"
	NovelStatusHiatus    NovelStatus = "hiatus"
	NovelStatusDropped   NovelStatus = "dropped"
	NovelStatusDraft     NovelStatus = "draft"
)

// Valid 判断状态是否合法
func (s NovelStatus) Valid() bool {
	switch s {
	case NovelStatusOngoing, NovelStatusCompleted, NovelStatusHiatus, NovelStatusDropped, NovelStatusDraft:
		return true
	}
	return false
}

// 小说文档字段名
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldArtist        = "artist"
	FieldDescription   = "description"
	FieldGenres        = "genres"
	FieldStatus        = "status"
	FieldCoverURL      = "cover_url"
	FieldViewCount     = "view_count"
	FieldRating        = "rating"
	FieldTotalChapters = "total_chapters"
	FieldCreatedBy     = "created_by"
	FieldCreatedAt     = "created_at"
	FieldUpdatedAt     = "updated_at"
)

// Novel 小说实体
type Novel struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Artist        string      `json:"artist,omitempty"`
	Description   string      `json:"description,omitempty"`
	Genres        []string    `json:"genres"`
	Status        NovelStatus `json:"status"`
	CoverURL      string      `json:"cover_url,omitempty"`
	ViewCount     int64       `json:"view_count"`
	Rating        float64     `json:"rating"`
	TotalChapters int64       `json:"total_chapters"`
	CreatedBy     string      `json:"created_by"`
	CreatedAt     *time.Time  `json:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at"`

	// Raw 文档的全部原始字段（时间已规范化）
	Raw map[string]any `json:"-"`
}

// NovelFromDocument 由文档构造小说实体
func NovelFromDocument(doc *repository.Document) *Novel {
	if doc == nil {
		return nil
	}
	f := docFields(doc)
	return &Novel{
		ID:            doc.ID,
		Title:         fieldString(f, FieldTitle),
		Author:        fieldString(f, FieldAuthor),
		Artist:        fieldString(f, FieldArtist),
		Description:   fieldString(f, FieldDescription),
		Genres:        fieldStrings(f, FieldGenres),
		Status:        NovelStatus(fieldString(f, FieldStatus)),
		CoverURL:      fieldString(f, FieldCoverURL),
		ViewCount:     fieldInt(f, FieldViewCount),
		Rating:        fieldFloat(f, FieldRating),
		TotalChapters: fieldInt(f, FieldTotalChapters),
		CreatedBy:     fieldString(f, FieldCreatedBy),
		CreatedAt:     fieldTime(f, FieldCreatedAt),
		UpdatedAt:     fieldTime(f, FieldUpdatedAt),
		Raw:           timestamp.NormalizeFields(f),
	}
}

// IsOwnedBy 判断小说是否属于指定用户
func (n *Novel) IsOwnedBy(userID string) bool {
	return n != nil && userID != "" && n.CreatedBy == userID
}

// NovelInput 创建小说的输入
type NovelInput struct {
	Title       string
	Author      string
	Artist      string
	Description string
	Genres      []string
	Status      NovelStatus
	CoverURL    string
}

// NewNovelFields 构造新小说文档字段
func NewNovelFields(ownerID string, in NovelInput) map[string]any {
	status := in.Status
	if status == "" {
		status = NovelStatusOngoing
	}
	genres := in.Genres
	if genres == nil {
		genres = []string{}
	}
	return map[string]any{
		FieldTitle:         in.Title,
		FieldAuthor:        in.Author,
		FieldArtist:        in.Artist,
		FieldDescription:   in.Description,
		FieldGenres:        genres,
		FieldStatus:        string(status),
		FieldCoverURL:      in.CoverURL,
		FieldViewCount:     0,
		FieldRating:        0,
		FieldTotalChapters: 0,
		FieldCreatedBy:     ownerID,
		FieldCreatedAt:     timestamp.ServerTimestamp{},
		FieldUpdatedAt:     timestamp.ServerTimestamp{},
	}
}

// NovelUpdate 更新小说的输入，nil 字段保持不变
type NovelUpdate struct {
	Title       *string
	Author      *string
	Artist      *string
	Description *string
	Genres      []string
	Status      *NovelStatus
	CoverURL    *string
}

// Fields 转换为待更新字段
func (u NovelUpdate) Fields() map[string]any {
	fields := map[string]any{FieldUpdatedAt: timestamp.ServerTimestamp{}}
	if u.Title != nil {
		fields[FieldTitle] = *u.Title
	}
	if u.Author != nil {
		fields[FieldAuthor] = *u.Author
	}
	if u.Artist != nil {
		fields[FieldArtist] = *u.Artist
	}
	if u.Description != nil {
		fields[FieldDescription] = *u.Description
	}
	if u.Genres != nil {
		fields[FieldGenres] = u.Genres
	}
	if u.Status != nil {
		fields[FieldStatus] = string(*u.Status)
	}
	if u.CoverURL != nil {
		fields[FieldCoverURL] = *u.CoverURL
	}
	return fields
}

// NovelStats 小说统计
type NovelStats struct {
	NovelID       string  `json:"novel_id"`
	TotalWords    int64   `json:"total_words"`
	TotalChapters int64   `json:"total_chapters"`
	TotalVolumes  int64   `json:"total_volumes"`
	ViewCount     int64   `json:"view_count"`
	Rating        float64 `json:"rating"`
}
