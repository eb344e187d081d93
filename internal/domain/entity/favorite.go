package entity

import (
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

// 收藏文档字段名
const (
	FieldFavoriteNovelID = "novelId"
	FieldTimestamp       = "timestamp"
)

// Favorite 收藏记录，文档存在即表示已收藏
type Favorite struct {
	NovelID   string     `json:"novelId"`
	Timestamp *time.Time `json:"timestamp"`
}

// FavoriteFromDocument 由文档构造收藏记录
func FavoriteFromDocument(doc *repository.Document) *Favorite {
	if doc == nil {
		return nil
	}
	f := docFields(doc)
	novelID := fieldString(f, FieldFavoriteNovelID)
	if novelID == "" {
		novelID = doc.ID
	}
	return &Favorite{
		NovelID:   novelID,
		Timestamp: fieldTime(f, FieldTimestamp),
	}
}

// NewFavoriteFields 构造新收藏文档字段
func NewFavoriteFields(novelID string) map[string]any {
	return map[string]any{
		FieldFavoriteNovelID: novelID,
		FieldTimestamp:       timestamp.ServerTimestamp{},
	}
}

// FavoriteToggleResult 切换收藏的返回值
type FavoriteToggleResult struct {
	NovelID    string `json:"novelId"`
	IsFavorite bool   `json:"isFavorite"`
	// Timestamp 新增收藏时为客户端估算时间，取消收藏时为 nil
	Timestamp *time.Time `json:"timestamp"`
}

// FavoriteStatus 单本小说的收藏状态
type FavoriteStatus struct {
	IsFavorite bool       `json:"isFavorite"`
	Timestamp  *time.Time `json:"timestamp"`
}

// FavoriteNovelView 收藏列表中的一项
type FavoriteNovelView struct {
	NovelID         string           `json:"novelId"`
	Title           string           `json:"title"`
	Author          string           `json:"author"`
	Genres          []string         `json:"genres"`
	CoverImage      string           `json:"coverImage"`
	Rating          float64          `json:"rating"`
	LastRead        string           `json:"lastRead,omitempty"`
	UpdatedAt       *time.Time       `json:"updated_at"`
	FavoritedAt     *time.Time       `json:"favorited_at"`
	ReadingProgress *ReadingProgress `json:"readingProgress,omitempty"`
	FirstChapterID  string           `json:"firstChapterId,omitempty"`
	FirstVolumeID   string           `json:"firstVolumeId,omitempty"`
	FirstChapter    *ChapterSummary  `json:"firstChapterData,omitempty"`
}

// ActivityTime 排序用的最近活动时间
func (v *FavoriteNovelView) ActivityTime() time.Time {
	return timestamp.Value(v.UpdatedAt)
}
