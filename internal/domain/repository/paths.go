package repository

import (
	"fmt"
	"strings"

	apperrors "z-novel-reader-api/pkg/errors"
)

// 集合名称
const (
	CollectionNovels          = "novels"
	CollectionVolumes         = "volumes"
	CollectionChapters        = "chapters"
	CollectionComments        = "comments"
	CollectionReplies         = "replies"
	CollectionUsers           = "users"
	CollectionFavorites       = "favorites"
	CollectionReadingProgress = "reading_progress"
	CollectionBookmarks       = "bookmarks"
	CollectionGenres          = "genres"
)

// ValidateID 校验作为路径段的文档 ID：非空且不含路径分隔符
func ValidateID(kind, id string) error {
	if id == "" {
		return apperrors.Validation("%s id is required", kind)
	}
	if strings.Contains(id, "/") {
		return apperrors.Validation("%s id must not contain '/'", kind)
	}
	return nil
}

// ValidateUserID 校验调用者 ID，缺失时返回未认证
func ValidateUserID(userID string) error {
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}
	return ValidateID("user", userID)
}

// JoinPath 拼接文档路径
func JoinPath(segments ...string) string {
	return strings.Join(segments, "/")
}

// SplitPath 拆分路径并校验每一段非空
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}
	}
	return segments, nil
}

// ParseDocumentPath 解析文档路径为集合路径和文档 ID
func ParseDocumentPath(path string) (collection, id string, err error) {
	segments, err := SplitPath(path)
	if err != nil {
		return "", "", err
	}
	if len(segments)%2 != 0 {
		return "", "", fmt.Errorf("invalid document path %q: odd number of segments", path)
	}
	return JoinPath(segments[:len(segments)-1]...), segments[len(segments)-1], nil
}

// ValidateCollectionPath 校验集合路径
func ValidateCollectionPath(path string) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	if len(segments)%2 != 1 {
		return fmt.Errorf("invalid collection path %q: even number of segments", path)
	}
	return nil
}

// NovelPath novels/{novelId}
func NovelPath(novelID string) string {
	return JoinPath(CollectionNovels, novelID)
}

// VolumesCollection novels/{novelId}/volumes
func VolumesCollection(novelID string) string {
	return JoinPath(CollectionNovels, novelID, CollectionVolumes)
}

// VolumePath novels/{novelId}/volumes/{volumeId}
func VolumePath(novelID, volumeID string) string {
	return JoinPath(VolumesCollection(novelID), volumeID)
}

// ChaptersCollection 卷下章节集合；volumeID 为空时为小说下的平铺章节集合
func ChaptersCollection(novelID, volumeID string) string {
	if volumeID == "" {
		return JoinPath(CollectionNovels, novelID, CollectionChapters)
	}
	return JoinPath(VolumePath(novelID, volumeID), CollectionChapters)
}

// ChapterPath 章节文档路径；volumeID 为空时使用平铺布局
func ChapterPath(novelID, volumeID, chapterID string) string {
	return JoinPath(ChaptersCollection(novelID, volumeID), chapterID)
}

// CommentsCollection 章节评论集合
func CommentsCollection(novelID, volumeID, chapterID string) string {
	return JoinPath(ChapterPath(novelID, volumeID, chapterID), CollectionComments)
}

// CommentPath 评论文档路径
func CommentPath(novelID, volumeID, chapterID, commentID string) string {
	return JoinPath(CommentsCollection(novelID, volumeID, chapterID), commentID)
}

// RepliesCollection 评论回复集合
func RepliesCollection(novelID, volumeID, chapterID, commentID string) string {
	return JoinPath(CommentPath(novelID, volumeID, chapterID, commentID), CollectionReplies)
}

// ReplyPath 回复文档路径
func ReplyPath(novelID, volumeID, chapterID, commentID, replyID string) string {
	return JoinPath(RepliesCollection(novelID, volumeID, chapterID, commentID), replyID)
}

// FavoritesCollection users/{userId}/favorites
func FavoritesCollection(userID string) string {
	return JoinPath(CollectionUsers, userID, CollectionFavorites)
}

// FavoritePath users/{userId}/favorites/{novelId}
func FavoritePath(userID, novelID string) string {
	return JoinPath(FavoritesCollection(userID), novelID)
}

// ProgressCollection users/{userId}/reading_progress
func ProgressCollection(userID string) string {
	return JoinPath(CollectionUsers, userID, CollectionReadingProgress)
}

// ProgressPath users/{userId}/reading_progress/{key}
func ProgressPath(userID, key string) string {
	return JoinPath(ProgressCollection(userID), key)
}

// BookmarksCollection users/{userId}/bookmarks
func BookmarksCollection(userID string) string {
	return JoinPath(CollectionUsers, userID, CollectionBookmarks)
}

// BookmarkPath users/{userId}/bookmarks/{bookmarkId}
func BookmarkPath(userID, bookmarkID string) string {
	return JoinPath(BookmarksCollection(userID), bookmarkID)
}

// GenrePath genres/{name}
func GenrePath(name string) string {
	return JoinPath(CollectionGenres, name)
}
