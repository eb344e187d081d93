package reading

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
)

// BookmarkService 书签服务
type BookmarkService struct {
	store repository.DocumentStore
}

// NewBookmarkService 创建书签服务
func NewBookmarkService(store repository.DocumentStore) *BookmarkService {
	return &BookmarkService{store: store}
}

// SaveBookmark 新建书签；指定 BookmarkID 时合并更新该书签
func (s *BookmarkService) SaveBookmark(ctx context.Context, userID string, in entity.BookmarkInput) (*entity.Bookmark, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := requireIDs(in.NovelID, in.VolumeID, in.ChapterID); err != nil {
		return nil, err
	}
	if in.Position < 0 {
		return nil, apperrors.Validation("position must not be negative")
	}

	id := in.BookmarkID
	if id != "" {
		if err := repository.ValidateID("bookmark", id); err != nil {
			return nil, err
		}
	}

	ctx, span := tracer.Start(ctx, "reading.SaveBookmark",
		trace.WithAttributes(attribute.String("novel.id", in.NovelID)))
	defer span.End()

	var err error
	if id == "" {
		id, err = s.store.Add(ctx, repository.BookmarksCollection(userID), in.Fields(true))
	} else {
		err = s.store.Set(ctx, repository.BookmarkPath(userID, id), in.Fields(false), repository.WithMerge())
	}
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to save bookmark")
	}

	return s.GetBookmark(ctx, userID, id)
}

// GetBookmark 读取书签，不存在时返回 NotFound
func (s *BookmarkService) GetBookmark(ctx context.Context, userID, bookmarkID string) (*entity.Bookmark, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := repository.ValidateID("bookmark", bookmarkID); err != nil {
		return nil, err
	}

	doc, err := s.store.Get(ctx, repository.BookmarkPath(userID, bookmarkID))
	if err != nil {
		return nil, storeError(err, "failed to get bookmark")
	}
	if doc == nil {
		return nil, apperrors.ErrBookmarkNotFound.WithDetail(bookmarkID)
	}
	return entity.BookmarkFromDocument(doc), nil
}
