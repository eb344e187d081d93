package entity

import (
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

// Bookmark 书签
type Bookmark struct {
	ID        string     `json:"id"`
	NovelID   string     `json:"novelId"`
	VolumeID  string     `json:"volumeId"`
	ChapterID string     `json:"chapterId"`
	Position  int64      `json:"position"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// BookmarkFromDocument 由文档构造书签
func BookmarkFromDocument(doc *repository.Document) *Bookmark {
	if doc == nil {
		return nil
	}
	f := docFields(doc)
	return &Bookmark{
		ID:        doc.ID,
		NovelID:   fieldString(f, FieldProgressNovelID),
		VolumeID:  fieldString(f, FieldProgressVolumeID),
		ChapterID: fieldString(f, FieldProgressChapterID),
		Position:  fieldInt(f, FieldPosition),
		CreatedAt: fieldTime(f, FieldCreatedAt),
		UpdatedAt: fieldTime(f, FieldUpdatedAt),
	}
}

// BookmarkInput 保存书签的输入
type BookmarkInput struct {
	// BookmarkID 为空时新建书签
	BookmarkID string
	NovelID    string
	VolumeID   string
	ChapterID  string
	Position   int64
}

// Fields 书签文档字段；新建时附带 created_at
func (in BookmarkInput) Fields(isNew bool) map[string]any {
	fields := map[string]any{
		FieldProgressNovelID:   in.NovelID,
		FieldProgressVolumeID:  in.VolumeID,
		FieldProgressChapterID: in.ChapterID,
		FieldPosition:          in.Position,
		FieldUpdatedAt:         timestamp.ServerTimestamp{},
	}
	if isNew {
		fields[FieldCreatedAt] = timestamp.ServerTimestamp{}
	}
	return fields
}
