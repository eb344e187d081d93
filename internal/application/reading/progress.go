package reading

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
	"z-novel-reader-api/pkg/logger"
	"z-novel-reader-api/pkg/metrics"
	"z-novel-reader-api/pkg/timestamp"
)

var tracer = otel.Tracer("reading")

// ProgressService 阅读进度存取，远端文档为主、本地缓存兜底
type ProgressService struct {
	store  repository.DocumentStore
	cache  repository.LocalCache
	joiner *DetailJoiner
	now    func() time.Time
}

// NewProgressService 创建阅读进度服务
func NewProgressService(store repository.DocumentStore, cache repository.LocalCache, joiner *DetailJoiner) *ProgressService {
	return &ProgressService{
		store:  store,
		cache:  cache,
		joiner: joiner,
		now:    time.Now,
	}
}

// SaveProgress 保存阅读位置：先写本地缓存，再写远端记录
func (s *ProgressService) SaveProgress(ctx context.Context, userID, novelID, volumeID, chapterID string, position int64) (*entity.ProgressSaveResult, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := requireIDs(novelID, volumeID, chapterID); err != nil {
		return nil, err
	}
	if position < 0 {
		return nil, apperrors.Validation("position must not be negative")
	}

	key := entity.ProgressKey(novelID, volumeID, chapterID)
	ctx, span := tracer.Start(ctx, "reading.SaveProgress",
		trace.WithAttributes(
			attribute.String("progress.key", key),
			attribute.Int64("progress.position", position),
		))
	defer span.End()

	now := s.now().UTC()
	s.writeCache(ctx, userID, key, entity.CachedPosition{Position: position, Timestamp: now.UnixMilli()})

	path := repository.ProgressPath(userID, key)
	existing, err := s.store.Get(ctx, path)
	if err == nil {
		if existing != nil {
			err = s.store.Update(ctx, path, entity.ProgressPositionFields(position))
		} else {
			err = s.store.Set(ctx, path, entity.NewProgressFields(novelID, volumeID, chapterID, position))
		}
	}
	if err != nil {
		span.RecordError(err)
		metrics.ProgressSavesTotal.WithLabelValues("error").Inc()
		return nil, storeError(err, "failed to save reading progress")
	}

	metrics.ProgressSavesTotal.WithLabelValues("ok").Inc()
	return &entity.ProgressSaveResult{Key: key, Position: position, UpdatedAt: now}, nil
}

// GetProgress 读取单条阅读进度
//
// 远端命中时与缓存按写入时间取较新者并刷新缓存；远端缺失或失败时回退到缓存，两者都没有时返回 nil。
func (s *ProgressService) GetProgress(ctx context.Context, userID, novelID, volumeID, chapterID string) (*entity.ReadingProgress, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := requireIDs(novelID, volumeID, chapterID); err != nil {
		return nil, err
	}

	key := entity.ProgressKey(novelID, volumeID, chapterID)
	ctx, span := tracer.Start(ctx, "reading.GetProgress",
		trace.WithAttributes(attribute.String("progress.key", key)))
	defer span.End()

	doc, err := s.store.Get(ctx, repository.ProgressPath(userID, key))
	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "remote progress lookup failed, falling back to local cache",
			"key", key,
			"error", err,
		)
	}
	cached := s.readCache(ctx, userID, key)

	if err == nil && doc != nil {
		remote := entity.ProgressFromDocument(doc)
		if cachedIsNewer(cached, remote) {
			remote.Position = cached.Position
			remote.UpdatedAt = timestamp.FromMillis(cached.Timestamp)
			remote.FromCache = true
			return remote, nil
		}
		refreshed := entity.CachedPosition{Position: remote.Position}
		if remote.UpdatedAt != nil {
			refreshed.Timestamp = remote.UpdatedAt.UnixMilli()
		}
		s.writeCache(ctx, userID, key, refreshed)
		return remote, nil
	}

	if cached == nil {
		span.SetAttributes(attribute.Bool("progress.found", false))
		return nil, nil
	}
	metrics.CacheFallbackTotal.WithLabelValues("get_progress").Inc()
	return &entity.ReadingProgress{
		ID:        key,
		NovelID:   novelID,
		VolumeID:  volumeID,
		ChapterID: chapterID,
		Position:  cached.Position,
		UpdatedAt: timestamp.FromMillis(cached.Timestamp),
		FromCache: true,
	}, nil
}

// GetAllProgressForUser 返回用户全部阅读进度，按更新时间倒序
func (s *ProgressService) GetAllProgressForUser(ctx context.Context, userID string) ([]*entity.ReadingProgress, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "reading.GetAllProgressForUser")
	defer span.End()

	docs, err := s.store.Query(ctx, repository.ProgressCollection(userID), repository.Query{
		OrderBy: []repository.Order{repository.Desc(entity.FieldUpdatedAt)},
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to list reading progress")
	}

	records := make([]*entity.ReadingProgress, 0, len(docs))
	for _, doc := range docs {
		records = append(records, entity.ProgressFromDocument(doc))
	}
	span.SetAttributes(attribute.Int("progress.count", len(records)))
	return records, nil
}

// LatestProgressForNovel 返回用户在某本小说上最近的阅读进度，没有时返回 nil
func (s *ProgressService) LatestProgressForNovel(ctx context.Context, userID, novelID string) (*entity.ReadingProgress, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := repository.ValidateID("novel", novelID); err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "reading.LatestProgressForNovel",
		trace.WithAttributes(attribute.String("novel.id", novelID)))
	defer span.End()

	docs, err := s.store.Query(ctx, repository.ProgressCollection(userID), repository.Query{
		Where: []repository.Filter{
			repository.Where(entity.FieldProgressNovelID, repository.OpEqual, novelID),
		},
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to query reading progress")
	}

	records := make([]*entity.ReadingProgress, 0, len(docs))
	for _, doc := range docs {
		records = append(records, entity.ProgressFromDocument(doc))
	}
	latest := Dedupe(records, 1)
	if len(latest) == 0 {
		return nil, nil
	}
	return latest[0], nil
}

// RecentlyRead 最近阅读书架：全部进度去重后关联小说、卷、章节详情
func (s *ProgressService) RecentlyRead(ctx context.Context, userID string, limit int) ([]*entity.CompositeView, error) {
	records, err := s.GetAllProgressForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.joiner.Enrich(ctx, Dedupe(records, limit)), nil
}

// cachedIsNewer 缓存写入时间严格晚于远端更新时间
func cachedIsNewer(cached *entity.CachedPosition, remote *entity.ReadingProgress) bool {
	if cached == nil || cached.Timestamp <= 0 {
		return false
	}
	if remote.UpdatedAt == nil {
		return true
	}
	return cached.Timestamp > remote.UpdatedAt.UnixMilli()
}

func (s *ProgressService) writeCache(ctx context.Context, userID, key string, pos entity.CachedPosition) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(pos)
	if err == nil {
		err = s.cache.Set(ctx, entity.ProgressCacheKey(userID, key), string(payload))
	}
	if err != nil {
		metrics.CacheWriteFailures.Inc()
		logger.Warn(ctx, "failed to write reading position cache",
			"key", key,
			"error", err,
		)
	}
}

// readCache 读取缓存的阅读位置，兼容只存位置数字的旧格式
func (s *ProgressService) readCache(ctx context.Context, userID, key string) *entity.CachedPosition {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, entity.ProgressCacheKey(userID, key))
	if err != nil {
		logger.Warn(ctx, "failed to read reading position cache",
			"key", key,
			"error", err,
		)
		return nil
	}
	if !ok {
		return nil
	}

	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &entity.CachedPosition{Position: n}
	}
	var pos entity.CachedPosition
	if err := json.Unmarshal([]byte(raw), &pos); err != nil {
		logger.Debug(ctx, "unrecognized cached reading position",
			"key", key,
			"error", err,
		)
		return nil
	}
	return &pos
}
