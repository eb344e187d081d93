package entity

import (
	"sort"
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

// 评论文档字段名
const (
	FieldCommentContent    = "content"
	FieldCommentUserID     = "userId"
	FieldCommentUserName   = "userName"
	FieldCommentUserAvatar = "userAvatar"
	FieldCommentCreatedAt  = "createdAt"
	FieldLikes             = "likes"
	FieldLikedBy           = "likedBy"
)

// Author 发表评论时的用户快照
type Author struct {
	UserID string `json:"userId"`
	Name   string `json:"userName"`
	Avatar string `json:"userAvatar"`
}

// Comment 评论或回复
type Comment struct {
	Author

	ID        string     `json:"id"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"createdAt"`
	Likes     int        `json:"likes"`
	LikedBy   []string   `json:"likedBy"`
	Replies   []*Comment `json:"replies,omitempty"`
}

// CommentFromDocument 由文档构造评论
func CommentFromDocument(doc *repository.Document) *Comment {
	if doc == nil {
		return nil
	}
	f := docFields(doc)
	c := &Comment{
		ID:      doc.ID,
		Content: fieldString(f, FieldCommentContent),
		Author: Author{
			UserID: fieldString(f, FieldCommentUserID),
			Name:   fieldString(f, FieldCommentUserName),
			Avatar: fieldString(f, FieldCommentUserAvatar),
		},
		CreatedAt: fieldTime(f, FieldCommentCreatedAt),
		LikedBy:   fieldStrings(f, FieldLikedBy),
	}
	c.normalizeLikes()
	return c
}

// NewCommentFields 构造新评论文档字段
func NewCommentFields(author Author, content string) map[string]any {
	return map[string]any{
		FieldCommentContent:    content,
		FieldCommentUserID:     author.UserID,
		FieldCommentUserName:   author.Name,
		FieldCommentUserAvatar: author.Avatar,
		FieldCommentCreatedAt:  timestamp.ServerTimestamp{},
		FieldLikes:             0,
		FieldLikedBy:           []string{},
	}
}

// ToggleLike 切换用户点赞状态，返回切换后是否点赞；likes 始终等于 likedBy 的基数
func (c *Comment) ToggleLike(userID string) bool {
	liked := false
	next := make([]string, 0, len(c.LikedBy)+1)
	for _, id := range c.LikedBy {
		if id == userID {
			liked = true
			continue
		}
		next = append(next, id)
	}
	if !liked {
		next = append(next, userID)
	}
	c.LikedBy = next
	c.normalizeLikes()
	return !liked
}

// LikeFields 点赞相关的待更新字段
func (c *Comment) LikeFields() map[string]any {
	likedBy := make([]string, len(c.LikedBy))
	copy(likedBy, c.LikedBy)
	return map[string]any{
		FieldLikedBy: likedBy,
		FieldLikes:   c.Likes,
	}
}

// normalizeLikes 去重 likedBy 并据此重算 likes
func (c *Comment) normalizeLikes() {
	seen := make(map[string]struct{}, len(c.LikedBy))
	uniq := make([]string, 0, len(c.LikedBy))
	for _, id := range c.LikedBy {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Strings(uniq)
	c.LikedBy = uniq
	c.Likes = len(uniq)
}

// LikeResult 点赞切换结果
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}
