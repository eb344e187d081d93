package entity

import "time"

// NovelSummary 组合视图中的小说信息
type NovelSummary struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Author    string         `json:"author"`
	CoverURL  string         `json:"cover_url"`
	CreatedAt *time.Time     `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at"`
	Fields    map[string]any `json:"fields"`
}

// VolumeSummary 组合视图中的卷信息
type VolumeSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	VolumeNumber int64  `json:"volume_number"`
}

// ChapterSummary 组合视图中的章节信息
type ChapterSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	ChapterNumber any        `json:"chapter_number"`
	CreatedAt     *time.Time `json:"created_at"`
	LastModified  *time.Time `json:"last_modified"`
}

// CompositeView 阅读进度与小说、卷、章节的组合视图
type CompositeView struct {
	Progress *ReadingProgress `json:"progress"`
	Novel    NovelSummary     `json:"novel"`
	Volume   *VolumeSummary   `json:"volume,omitempty"`
	Chapter  ChapterSummary   `json:"chapter"`
}

// Summary 小说摘要
func (n *Novel) Summary() NovelSummary {
	return NovelSummary{
		ID:        n.ID,
		Title:     n.Title,
		Author:    n.Author,
		CoverURL:  n.CoverURL,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Fields:    n.Raw,
	}
}

// Summary 卷摘要
func (v *Volume) Summary() *VolumeSummary {
	return &VolumeSummary{
		ID:           v.ID,
		Title:        v.Title,
		VolumeNumber: v.VolumeNumber,
	}
}

// Summary 章节摘要
func (c *Chapter) Summary() ChapterSummary {
	return ChapterSummary{
		ID:            c.ID,
		Title:         c.Title,
		ChapterNumber: c.ChapterNumber,
		CreatedAt:     c.CreatedAt,
		LastModified:  c.LastModified,
	}
}
