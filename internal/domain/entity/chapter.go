package entity

import (
	"regexp"
	"strings"
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

var markupTag = regexp.MustCompile(`<[^>]+>`)

// CountWords 去除标记后按空白切分统计字数
func CountWords(content string) int64 {
	plain := strings.TrimSpace(markupTag.ReplaceAllString(content, " "))
	if plain == "" {
		return 0
	}
	return int64(len(strings.Fields(plain)))
}

// Chapter 章节实体
type Chapter struct {
	ID            string     `json:"id"`
	NovelID       string     `json:"novel_id"`
	VolumeID      string     `json:"volume_id,omitempty"`
	Title         string     `json:"title"`
	ChapterNumber any        `json:"chapter_number"`
	Content       string     `json:"content,omitempty"`
	WordCount     int64      `json:"word_count"`
	CreatedAt     *time.Time `json:"created_at"`
	LastModified  *time.Time `json:"last_modified"`
}

// ChapterFromDocument 由文档构造章节实体，novelID/volumeID 用于兼容缺少父 ID 字段的旧文档
func ChapterFromDocument(doc *repository.Document, novelID, volumeID string) *Chapter {
	if doc == nil {
		return nil
	}
	f := docFields(doc)
	c := &Chapter{
		ID:            doc.ID,
		NovelID:       fieldString(f, FieldNovelID),
		VolumeID:      fieldString(f, FieldVolumeID),
		Title:         fieldString(f, FieldTitle),
		ChapterNumber: f[FieldChapterNumber],
		Content:       fieldString(f, FieldContent),
		WordCount:     fieldInt(f, FieldWordCount),
		CreatedAt:     fieldTime(f, FieldCreatedAt),
		LastModified:  fieldTime(f, FieldLastModified),
	}
	if c.NovelID == "" {
		c.NovelID = novelID
	}
	if c.VolumeID == "" {
		c.VolumeID = volumeID
	}
	if c.ChapterNumber == nil {
		c.ChapterNumber = 0
	}
	return c
}

// NumberValue 返回章节序号的数值形式
func (c *Chapter) NumberValue() float64 {
	return numberKey(c.ChapterNumber)
}

// ChapterInput 创建章节的输入
type ChapterInput struct {
	Title         string
	ChapterNumber any
	Content       string
}

// NewChapterFields 构造新章节文档字段，字数在创建时计算
func NewChapterFields(novelID, volumeID string, in ChapterInput) map[string]any {
	return map[string]any{
		FieldNovelID:       novelID,
		FieldVolumeID:      volumeID,
		FieldTitle:         in.Title,
		FieldChapterNumber: in.ChapterNumber,
		FieldContent:       in.Content,
		FieldWordCount:     CountWords(in.Content),
		FieldCreatedAt:     timestamp.ServerTimestamp{},
		FieldLastModified:  timestamp.ServerTimestamp{},
	}
}

// FirstChapter 开始阅读的首章定位
type FirstChapter struct {
	ChapterID string   `json:"chapter_id"`
	VolumeID  string   `json:"volume_id,omitempty"`
	Chapter   *Chapter `json:"chapter"`
}
