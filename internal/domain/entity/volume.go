package entity

import (
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

// 卷/章节文档字段名
const (
	FieldNovelID       = "novel_id"
	FieldVolumeID      = "volume_id"
	FieldVolumeNumber  = "volume_number"
	FieldChapterNumber = "chapter_number"
	FieldContent       = "content"
	FieldWordCount     = "word_count"
	FieldLastModified  = "last_modified"
)

// Volume 卷实体
type Volume struct {
	ID           string     `json:"id"`
	NovelID      string     `json:"novel_id"`
	Title        string     `json:"title"`
	VolumeNumber int64      `json:"volume_number"`
	CreatedAt    *time.Time `json:"created_at"`
}

// VolumeFromDocument 由文档构造卷实体，novelID 用于兼容缺少 novel_id 字段的旧文档
func VolumeFromDocument(doc *repository.Document, novelID string) *Volume {
	if doc == nil {
		return nil
	}
	f := docFields(doc)
	v := &Volume{
		ID:           doc.ID,
		NovelID:      fieldString(f, FieldNovelID),
		Title:        fieldString(f, FieldTitle),
		VolumeNumber: fieldInt(f, FieldVolumeNumber),
		CreatedAt:    fieldTime(f, FieldCreatedAt),
	}
	if v.NovelID == "" {
		v.NovelID = novelID
	}
	return v
}

// NewVolumeFields 构造新卷文档字段
func NewVolumeFields(novelID, title string, volumeNumber int64) map[string]any {
	return map[string]any{
		FieldNovelID:      novelID,
		FieldTitle:        title,
		FieldVolumeNumber: volumeNumber,
		FieldCreatedAt:    timestamp.ServerTimestamp{},
	}
}

// VolumeWithChapters 卷及其章节
type VolumeWithChapters struct {
	*Volume
	Chapters []*Chapter `json:"chapters"`
}
