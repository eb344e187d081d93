package entity

import (
	"strings"
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

// 阅读进度文档字段名
const (
	FieldProgressNovelID   = "novelId"
	FieldProgressVolumeID  = "volumeId"
	FieldProgressChapterID = "chapterId"
	FieldPosition          = "position"
)

// ProgressKey 计算阅读进度的确定性键 novelId_volumeId_chapterId
func ProgressKey(novelID, volumeID, chapterID string) string {
	return strings.Join([]string{novelID, volumeID, chapterID}, "_")
}

// ReadingProgress 阅读进度记录
type ReadingProgress struct {
	ID        string     `json:"id"`
	NovelID   string     `json:"novelId"`
	VolumeID  string     `json:"volumeId"`
	ChapterID string     `json:"chapterId"`
	Position  int64      `json:"position"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	// FromCache 记录来自本地缓存而非远端
	FromCache bool `json:"from_cache,omitempty"`
}

// ProgressFromDocument 由文档构造阅读进度
func ProgressFromDocument(doc *repository.Document) *ReadingProgress {
	if doc == nil {
		return nil
	}
	f := docFields(doc)
	return &ReadingProgress{
		ID:        doc.ID,
		NovelID:   fieldString(f, FieldProgressNovelID),
		VolumeID:  fieldString(f, FieldProgressVolumeID),
		ChapterID: fieldString(f, FieldProgressChapterID),
		Position:  fieldInt(f, FieldPosition),
		CreatedAt: fieldTime(f, FieldCreatedAt),
		UpdatedAt: fieldTime(f, FieldUpdatedAt),
	}
}

// Complete 判断小说、卷、章节 ID 是否齐全
func (p *ReadingProgress) Complete() bool {
	return p != nil && p.NovelID != "" && p.VolumeID != "" && p.ChapterID != ""
}

// UpdatedTime 返回更新时间，缺失时为零值
func (p *ReadingProgress) UpdatedTime() time.Time {
	return timestamp.Value(p.UpdatedAt)
}

// NewProgressFields 构造新阅读进度文档字段
func NewProgressFields(novelID, volumeID, chapterID string, position int64) map[string]any {
	return map[string]any{
		FieldProgressNovelID:   novelID,
		FieldProgressVolumeID:  volumeID,
		FieldProgressChapterID: chapterID,
		FieldPosition:          position,
		FieldCreatedAt:         timestamp.ServerTimestamp{},
		FieldUpdatedAt:         timestamp.ServerTimestamp{},
	}
}

// ProgressPositionFields 构造已有进度的更新字段
func ProgressPositionFields(position int64) map[string]any {
	return map[string]any{
		FieldPosition:  position,
		FieldUpdatedAt: timestamp.ServerTimestamp{},
	}
}

// ProgressSaveResult 保存进度的返回值
type ProgressSaveResult struct {
	Key       string    `json:"key"`
	Position  int64     `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CachedPosition 本地缓存中的阅读位置
type CachedPosition struct {
	Position int64 `json:"position"`
	// Timestamp 写入时的毫秒时间戳
	Timestamp int64 `json:"timestamp"`
}

// ProgressCacheKey 本地缓存键，按用户隔离
func ProgressCacheKey(userID, key string) string {
	return "reading_position:" + userID + ":" + key
}
