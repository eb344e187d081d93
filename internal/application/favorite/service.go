// Package favorite 提供收藏切换、收藏状态查询与收藏书架聚合
package favorite

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
	"z-novel-reader-api/pkg/logger"
	"z-novel-reader-api/pkg/metrics"
)

var tracer = otel.Tracer("favorite")

const defaultFanout = 16

// 收藏书架中缺失字段的展示默认值
const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "Unknown"
)

// ProgressLookup 查询用户在某本小说上的最近进度
type ProgressLookup interface {
	LatestProgressForNovel(ctx context.Context, userID, novelID string) (*entity.ReadingProgress, error)
}

// Service 收藏服务
type Service struct {
	store    repository.DocumentStore
	resolver *FirstChapterResolver
	progress ProgressLookup
	fanout   int
	now      func() time.Time
}

// NewService 创建收藏服务，fanout 不大于 0 时使用默认值
func NewService(store repository.DocumentStore, resolver *FirstChapterResolver, progress ProgressLookup, fanout int) *Service {
	if fanout <= 0 {
		fanout = defaultFanout
	}
	return &Service{
		store:    store,
		resolver: resolver,
		progress: progress,
		fanout:   fanout,
		now:      time.Now,
	}
}

// ToggleFavorite 切换收藏状态
//
// 新增收藏时返回的时间为本地估算值，存储中的时间由服务端写入。
func (s *Service) ToggleFavorite(ctx context.Context, userID, novelID string) (*entity.FavoriteToggleResult, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := repository.ValidateID("novel", novelID); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "favorite.ToggleFavorite",
		trace.WithAttributes(attribute.String("novel.id", novelID)))
	defer span.End()

	path := repository.FavoritePath(userID, novelID)
	doc, err := s.store.Get(ctx, path)
	if err != nil {
		span.RecordError(err)
		return nil, toggleError(err)
	}

	if doc != nil {
		if err := s.store.Delete(ctx, path); err != nil {
			span.RecordError(err)
			return nil, toggleError(err)
		}
		metrics.FavoriteTogglesTotal.WithLabelValues("remove").Inc()
		return &entity.FavoriteToggleResult{NovelID: novelID, IsFavorite: false}, nil
	}

	if err := s.store.Set(ctx, path, entity.NewFavoriteFields(novelID)); err != nil {
		span.RecordError(err)
		return nil, toggleError(err)
	}
	now := s.now().UTC()
	metrics.FavoriteTogglesTotal.WithLabelValues("add").Inc()
	return &entity.FavoriteToggleResult{NovelID: novelID, IsFavorite: true, Timestamp: &now}, nil
}

// IsFavorited 查询是否已收藏；未登录或无权限时视为未收藏
func (s *Service) IsFavorited(ctx context.Context, userID, novelID string) (bool, error) {
	if err := repository.ValidateID("novel", novelID); err != nil {
		return false, err
	}
	if userID == "" {
		return false, nil
	}
	if err := repository.ValidateID("user", userID); err != nil {
		return false, err
	}

	doc, err := s.store.Get(ctx, repository.FavoritePath(userID, novelID))
	if err != nil {
		if apperrors.IsSoftAuthFailure(err) {
			logger.Debug(ctx, "favorite status unavailable, treating as not favorited",
				"novel_id", novelID,
				"error", err,
			)
			return false, nil
		}
		return false, storeError(err, "failed to check favorite")
	}
	return doc != nil, nil
}

// BatchFavoriteStatus 批量查询收藏状态；空输入直接返回空结果
func (s *Service) BatchFavoriteStatus(ctx context.Context, userID string, novelIDs []string) (map[string]entity.FavoriteStatus, error) {
	result := make(map[string]entity.FavoriteStatus, len(novelIDs))
	if len(novelIDs) == 0 {
		return result, nil
	}
	for _, id := range novelIDs {
		if err := repository.ValidateID("novel", id); err != nil {
			return nil, err
		}
	}
	if userID == "" {
		return allFalse(novelIDs), nil
	}
	if err := repository.ValidateID("user", userID); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "favorite.BatchFavoriteStatus",
		trace.WithAttributes(attribute.Int("favorite.batch_size", len(novelIDs))))
	defer span.End()

	statuses := make([]entity.FavoriteStatus, len(novelIDs))
	var g errgroup.Group
	g.SetLimit(s.fanout)
	for i, id := range novelIDs {
		g.Go(func() error {
			doc, err := s.store.Get(ctx, repository.FavoritePath(userID, id))
			if err != nil {
				return err
			}
			if fav := entity.FavoriteFromDocument(doc); fav != nil {
				statuses[i] = entity.FavoriteStatus{IsFavorite: true, Timestamp: fav.Timestamp}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		if apperrors.IsSoftAuthFailure(err) {
			logger.Debug(ctx, "batch favorite status unavailable, treating all as not favorited",
				"error", err,
			)
			return allFalse(novelIDs), nil
		}
		return nil, storeError(err, "failed to check favorites")
	}

	for i, id := range novelIDs {
		result[id] = statuses[i]
	}
	return result, nil
}

// ListFavoriteNovels 收藏书架：关联小说、首章与最近进度，按最近活动时间倒序
func (s *Service) ListFavoriteNovels(ctx context.Context, userID string) ([]*entity.FavoriteNovelView, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "favorite.ListFavoriteNovels")
	defer span.End()

	docs, err := s.store.Query(ctx, repository.FavoritesCollection(userID), repository.Query{})
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to list favorites")
	}

	slots := make([]*entity.FavoriteNovelView, len(docs))
	var g errgroup.Group
	g.SetLimit(s.fanout)
	for i, doc := range docs {
		fav := entity.FavoriteFromDocument(doc)
		g.Go(func() error {
			view, err := s.buildView(ctx, userID, fav)
			if err != nil {
				reason := "favorite_fetch_error"
				if errors.Is(err, apperrors.ErrNovelNotFound) {
					reason = "favorite_novel_missing"
				}
				metrics.EnrichDroppedTotal.WithLabelValues(reason).Inc()
				logger.Warn(ctx, "dropping favorite entry",
					"novel_id", fav.NovelID,
					"reason", reason,
					"error", err,
				)
				return nil
			}
			slots[i] = view
			return nil
		})
	}
	_ = g.Wait()

	views := make([]*entity.FavoriteNovelView, 0, len(slots))
	for _, v := range slots {
		if v != nil {
			views = append(views, v)
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		ti, tj := views[i].ActivityTime(), views[j].ActivityTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return views[i].NovelID < views[j].NovelID
	})
	span.SetAttributes(attribute.Int("favorite.count", len(views)))
	return views, nil
}

func (s *Service) buildView(ctx context.Context, userID string, fav *entity.Favorite) (*entity.FavoriteNovelView, error) {
	doc, err := s.store.Get(ctx, repository.NovelPath(fav.NovelID))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperrors.ErrNovelNotFound.WithDetail(fav.NovelID)
	}
	novel := entity.NovelFromDocument(doc)

	view := &entity.FavoriteNovelView{
		NovelID:     fav.NovelID,
		Title:       novel.Title,
		Author:      novel.Author,
		Genres:      novel.Genres,
		CoverImage:  novel.CoverURL,
		Rating:      novel.Rating,
		UpdatedAt:   novel.UpdatedAt,
		FavoritedAt: fav.Timestamp,
	}
	if view.Title == "" {
		view.Title = DefaultTitle
	}
	if view.Author == "" {
		view.Author = DefaultAuthor
	}

	if s.resolver != nil {
		first, err := s.resolver.Resolve(ctx, fav.NovelID)
		if err != nil {
			logger.Warn(ctx, "failed to resolve first chapter",
				"novel_id", fav.NovelID,
				"error", err,
			)
		} else if first != nil {
			summary := first.Chapter.Summary()
			view.FirstChapterID = first.ChapterID
			view.FirstVolumeID = first.VolumeID
			view.FirstChapter = &summary
		}
	}

	if s.progress != nil {
		p, err := s.progress.LatestProgressForNovel(ctx, userID, fav.NovelID)
		if err != nil {
			logger.Warn(ctx, "failed to load reading progress for favorite",
				"novel_id", fav.NovelID,
				"error", err,
			)
		} else if p != nil {
			view.ReadingProgress = p
			view.LastRead = p.ChapterID
			if p.UpdatedAt != nil {
				view.UpdatedAt = p.UpdatedAt
			}
		}
	}
	return view, nil
}

func allFalse(novelIDs []string) map[string]entity.FavoriteStatus {
	out := make(map[string]entity.FavoriteStatus, len(novelIDs))
	for _, id := range novelIDs {
		out[id] = entity.FavoriteStatus{}
	}
	return out
}

// toggleError 写入被拒绝时返回面向用户的权限错误
func toggleError(err error) error {
	if errors.Is(err, apperrors.ErrPermissionDenied) {
		return apperrors.ErrPermissionDenied.WithError(err)
	}
	return storeError(err, "failed to toggle favorite")
}

func storeError(err error, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, message)
}
