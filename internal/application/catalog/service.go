// Package catalog 提供小说、卷、章节与题材的维护和查询
package catalog

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
	"z-novel-reader-api/pkg/logger"
	"z-novel-reader-api/pkg/timestamp"
)

var tracer = otel.Tracer("catalog")

// DefaultNewNovelsLimit 新书列表默认条数
const DefaultNewNovelsLimit = 30

// Service 作品目录服务
type Service struct {
	store          repository.DocumentStore
	tx             repository.Transactor
	newNovelsLimit int
}

// NewService 创建目录服务
func NewService(store repository.DocumentStore, tx repository.Transactor, newNovelsLimit int) *Service {
	if newNovelsLimit <= 0 {
		newNovelsLimit = DefaultNewNovelsLimit
	}
	return &Service{store: store, tx: tx, newNovelsLimit: newNovelsLimit}
}

// CreateNovel 创建小说，当前用户为作者
func (s *Service) CreateNovel(ctx context.Context, userID string, in entity.NovelInput) (*entity.Novel, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, apperrors.Validation("invalid status %q", in.Status)
	}

	ctx, span := tracer.Start(ctx, "catalog.CreateNovel")
	defer span.End()

	id, err := s.store.Add(ctx, repository.CollectionNovels, entity.NewNovelFields(userID, in))
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to create novel")
	}
	span.SetAttributes(attribute.String("novel.id", id))
	logger.Info(ctx, "novel created", "novel_id", id, "user_id", userID)
	return s.GetNovel(ctx, id)
}

// GetNovel 读取小说
func (s *Service) GetNovel(ctx context.Context, novelID string) (*entity.Novel, error) {
	if err := repository.ValidateID("novel", novelID); err != nil {
		return nil, err
	}
	doc, err := s.store.Get(ctx, repository.NovelPath(novelID))
	if err != nil {
		return nil, storeError(err, "failed to get novel")
	}
	if doc == nil {
		return nil, apperrors.ErrNovelNotFound.WithDetail(novelID)
	}
	return entity.NovelFromDocument(doc), nil
}

// ownedNovel 读取小说并校验作者
func (s *Service) ownedNovel(ctx context.Context, userID, novelID string) (*entity.Novel, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	novel, err := s.GetNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}
	if !novel.IsOwnedBy(userID) {
		return nil, apperrors.ErrPermissionDenied.WithDetail("novel " + novelID + " is owned by another user")
	}
	return novel, nil
}

// UpdateNovel 更新小说，仅作者可操作
func (s *Service) UpdateNovel(ctx context.Context, userID, novelID string, upd entity.NovelUpdate) (*entity.Novel, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, apperrors.Validation("title must not be empty")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, apperrors.Validation("invalid status %q", *upd.Status)
	}

	ctx, span := tracer.Start(ctx, "catalog.UpdateNovel",
		trace.WithAttributes(attribute.String("novel.id", novelID)))
	defer span.End()

	if _, err := s.ownedNovel(ctx, userID, novelID); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, repository.NovelPath(novelID), upd.Fields()); err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to update novel")
	}
	return s.GetNovel(ctx, novelID)
}

// DeleteNovel 删除小说及其卷、章节、评论，仅作者可操作
func (s *Service) DeleteNovel(ctx context.Context, userID, novelID string) error {
	ctx, span := tracer.Start(ctx, "catalog.DeleteNovel",
		trace.WithAttributes(attribute.String("novel.id", novelID)))
	defer span.End()

	if _, err := s.ownedNovel(ctx, userID, novelID); err != nil {
		return err
	}

	deleted := 0
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		volumes, err := s.store.Query(ctx, repository.VolumesCollection(novelID), repository.Query{})
		if err != nil {
			return err
		}
		for _, v := range volumes {
			n, err := s.deleteChapters(ctx, novelID, v.ID)
			if err != nil {
				return err
			}
			deleted += n
			if err := s.store.Delete(ctx, v.Path); err != nil {
				return err
			}
		}
		n, err := s.deleteChapters(ctx, novelID, "")
		if err != nil {
			return err
		}
		deleted += n
		return s.store.Delete(ctx, repository.NovelPath(novelID))
	})
	if err != nil {
		span.RecordError(err)
		return storeError(err, "failed to delete novel")
	}

	logger.Info(ctx, "novel deleted", "novel_id", novelID, "chapters_deleted", deleted)
	return nil
}

// deleteChapters 删除章节集合及每章下的评论与回复
func (s *Service) deleteChapters(ctx context.Context, novelID, volumeID string) (int, error) {
	chapters, err := s.store.Query(ctx, repository.ChaptersCollection(novelID, volumeID), repository.Query{})
	if err != nil {
		return 0, err
	}
	for _, c := range chapters {
		comments, err := s.store.Query(ctx, repository.CommentsCollection(novelID, volumeID, c.ID), repository.Query{})
		if err != nil {
			return 0, err
		}
		for _, cm := range comments {
			replies, err := s.store.Query(ctx, repository.RepliesCollection(novelID, volumeID, c.ID, cm.ID), repository.Query{})
			if err != nil {
				return 0, err
			}
			for _, r := range replies {
				if err := s.store.Delete(ctx, r.Path); err != nil {
					return 0, err
				}
			}
			if err := s.store.Delete(ctx, cm.Path); err != nil {
				return 0, err
			}
		}
		if err := s.store.Delete(ctx, c.Path); err != nil {
			return 0, err
		}
	}
	return len(chapters), nil
}

// ListUserNovels 列出用户创建的小说，最近更新的在前
func (s *Service) ListUserNovels(ctx context.Context, userID string) ([]*entity.Novel, error) {
	if err := repository.ValidateUserID(userID); err != nil {
		return nil, err
	}
	docs, err := s.store.Query(ctx, repository.CollectionNovels, repository.Query{
		Where:   []repository.Filter{repository.Where(entity.FieldCreatedBy, repository.OpEqual, userID)},
		OrderBy: []repository.Order{repository.Desc(entity.FieldUpdatedAt)},
	})
	if err != nil {
		return nil, storeError(err, "failed to list user novels")
	}
	return novelsFrom(docs), nil
}

// ListNewNovels 按创建时间倒序列出新书
func (s *Service) ListNewNovels(ctx context.Context) ([]*entity.Novel, error) {
	docs, err := s.store.Query(ctx, repository.CollectionNovels, repository.Query{
		OrderBy: []repository.Order{repository.Desc(entity.FieldCreatedAt)},
		Limit:   s.newNovelsLimit,
	})
	if err != nil {
		return nil, storeError(err, "failed to list new novels")
	}
	return novelsFrom(docs), nil
}

// GetNovelStats 统计小说的字数、章节数与卷数
func (s *Service) GetNovelStats(ctx context.Context, novelID string) (*entity.NovelStats, error) {
	ctx, span := tracer.Start(ctx, "catalog.GetNovelStats",
		trace.WithAttributes(attribute.String("novel.id", novelID)))
	defer span.End()

	novel, err := s.GetNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}
	contents, err := s.GetVolumesAndChapters(ctx, novelID)
	if err != nil {
		return nil, err
	}
	flat, err := s.listChapters(ctx, novelID, "")
	if err != nil {
		return nil, err
	}

	stats := &entity.NovelStats{
		NovelID:      novelID,
		TotalVolumes: int64(len(contents)),
		ViewCount:    novel.ViewCount,
		Rating:       novel.Rating,
	}
	count := func(chapters []*entity.Chapter) {
		for _, c := range chapters {
			stats.TotalChapters++
			stats.TotalWords += c.WordCount
		}
	}
	for _, v := range contents {
		count(v.Chapters)
	}
	count(flat)
	return stats, nil
}

// ListVolumes 按卷序号升序列出卷
func (s *Service) ListVolumes(ctx context.Context, novelID string) ([]*entity.Volume, error) {
	if err := repository.ValidateID("novel", novelID); err != nil {
		return nil, err
	}
	docs, err := s.store.Query(ctx, repository.VolumesCollection(novelID), repository.Query{
		OrderBy: []repository.Order{repository.Asc(entity.FieldVolumeNumber)},
	})
	if err != nil {
		return nil, storeError(err, "failed to list volumes")
	}
	volumes := make([]*entity.Volume, 0, len(docs))
	for _, d := range docs {
		volumes = append(volumes, entity.VolumeFromDocument(d, novelID))
	}
	return volumes, nil
}

// AddVolume 新增卷；volumeNumber 不大于 0 时取现有卷数加一
func (s *Service) AddVolume(ctx context.Context, userID, novelID, title string, volumeNumber int64) (*entity.Volume, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.Validation("volume title is required")
	}
	if _, err := s.ownedNovel(ctx, userID, novelID); err != nil {
		return nil, err
	}

	if volumeNumber <= 0 {
		existing, err := s.ListVolumes(ctx, novelID)
		if err != nil {
			return nil, err
		}
		volumeNumber = int64(len(existing)) + 1
	}

	id, err := s.store.Add(ctx, repository.VolumesCollection(novelID), entity.NewVolumeFields(novelID, title, volumeNumber))
	if err != nil {
		return nil, storeError(err, "failed to add volume")
	}
	doc, err := s.store.Get(ctx, repository.VolumePath(novelID, id))
	if err != nil {
		return nil, storeError(err, "failed to get volume")
	}
	return entity.VolumeFromDocument(doc, novelID), nil
}

// GetVolumesAndChapters 返回全部卷及其章节，卷与章节均按序号升序
func (s *Service) GetVolumesAndChapters(ctx context.Context, novelID string) ([]*entity.VolumeWithChapters, error) {
	volumes, err := s.ListVolumes(ctx, novelID)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.VolumeWithChapters, len(volumes))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range volumes {
		g.Go(func() error {
			chapters, err := s.listChapters(gctx, novelID, v.ID)
			if err != nil {
				return err
			}
			out[i] = &entity.VolumeWithChapters{Volume: v, Chapters: chapters}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// listChapters 列出章节，按章节序号升序，序号相同按创建时间
func (s *Service) listChapters(ctx context.Context, novelID, volumeID string) ([]*entity.Chapter, error) {
	docs, err := s.store.Query(ctx, repository.ChaptersCollection(novelID, volumeID), repository.Query{})
	if err != nil {
		return nil, storeError(err, "failed to list chapters")
	}
	chapters := make([]*entity.Chapter, 0, len(docs))
	for _, d := range docs {
		c := entity.ChapterFromDocument(d, novelID, volumeID)
		c.Content = ""
		chapters = append(chapters, c)
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		ni, nj := chapters[i].NumberValue(), chapters[j].NumberValue()
		if ni != nj {
			return ni < nj
		}
		ti, tj := chapters[i].CreatedAt, chapters[j].CreatedAt
		if ti != nil && tj != nil && !ti.Equal(*tj) {
			return ti.Before(*tj)
		}
		return chapters[i].ID < chapters[j].ID
	})
	return chapters, nil
}

// NextChapterNumber 返回卷内下一个章节序号
func (s *Service) NextChapterNumber(ctx context.Context, novelID, volumeID string) (int64, error) {
	if err := repository.ValidateID("novel", novelID); err != nil {
		return 0, err
	}
	if err := repository.ValidateID("volume", volumeID); err != nil {
		return 0, err
	}
	chapters, err := s.listChapters(ctx, novelID, volumeID)
	if err != nil {
		return 0, err
	}
	var highest float64
	for _, c := range chapters {
		if n := c.NumberValue(); n > highest {
			highest = n
		}
	}
	return int64(highest) + 1, nil
}

// AddChapter 在卷下新增章节并累加小说的章节总数，仅作者可操作
func (s *Service) AddChapter(ctx context.Context, userID, novelID, volumeID string, in entity.ChapterInput) (*entity.Chapter, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperrors.Validation("chapter title is required")
	}
	if err := repository.ValidateID("volume", volumeID); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "catalog.AddChapter",
		trace.WithAttributes(
			attribute.String("novel.id", novelID),
			attribute.String("volume.id", volumeID),
		))
	defer span.End()

	if _, err := s.ownedNovel(ctx, userID, novelID); err != nil {
		return nil, err
	}

	var chapterID string
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		volume, err := s.store.Get(ctx, repository.VolumePath(novelID, volumeID))
		if err != nil {
			return err
		}
		if volume == nil {
			return apperrors.ErrVolumeNotFound.WithDetail(volumeID)
		}

		if in.ChapterNumber == nil {
			next, err := s.NextChapterNumber(ctx, novelID, volumeID)
			if err != nil {
				return err
			}
			in.ChapterNumber = next
		}

		chapterID, err = s.store.Add(ctx, repository.ChaptersCollection(novelID, volumeID), entity.NewChapterFields(novelID, volumeID, in))
		if err != nil {
			return err
		}

		novelDoc, err := s.store.Get(ctx, repository.NovelPath(novelID))
		if err != nil {
			return err
		}
		total := entity.NovelFromDocument(novelDoc).TotalChapters + 1
		return s.store.Update(ctx, repository.NovelPath(novelID), map[string]any{
			entity.FieldTotalChapters: total,
			entity.FieldUpdatedAt:     timestamp.ServerTimestamp{},
		})
	})
	if err != nil {
		span.RecordError(err)
		return nil, storeError(err, "failed to add chapter")
	}
	return s.GetChapter(ctx, novelID, volumeID, chapterID)
}

// GetChapter 读取章节；volumeID 为空时读取平铺章节
func (s *Service) GetChapter(ctx context.Context, novelID, volumeID, chapterID string) (*entity.Chapter, error) {
	if err := repository.ValidateID("novel", novelID); err != nil {
		return nil, err
	}
	if volumeID != "" {
		if err := repository.ValidateID("volume", volumeID); err != nil {
			return nil, err
		}
	}
	if err := repository.ValidateID("chapter", chapterID); err != nil {
		return nil, err
	}
	doc, err := s.store.Get(ctx, repository.ChapterPath(novelID, volumeID, chapterID))
	if err != nil {
		return nil, storeError(err, "failed to get chapter")
	}
	if doc == nil {
		return nil, apperrors.ErrChapterNotFound.WithDetail(chapterID)
	}
	return entity.ChapterFromDocument(doc, novelID, volumeID), nil
}

// ListGenres 列出题材名称
func (s *Service) ListGenres(ctx context.Context) ([]string, error) {
	docs, err := s.store.Query(ctx, repository.CollectionGenres, repository.Query{
		OrderBy: []repository.Order{repository.Asc(entity.FieldGenreName)},
	})
	if err != nil {
		return nil, storeError(err, "failed to list genres")
	}
	genres := make([]string, 0, len(docs))
	for _, d := range docs {
		if name, ok := d.Value(entity.FieldGenreName).(string); ok && name != "" {
			genres = append(genres, name)
		}
	}
	return genres, nil
}

// SeedGenres 写入题材列表，已存在的题材会被覆盖
func (s *Service) SeedGenres(ctx context.Context, genres []string) error {
	for _, g := range genres {
		if err := repository.ValidateID("genre", g); err != nil {
			return err
		}
		if err := s.store.Set(ctx, repository.GenrePath(g), map[string]any{entity.FieldGenreName: g}); err != nil {
			return storeError(err, "failed to seed genre "+g)
		}
	}
	return nil
}

func novelsFrom(docs []*repository.Document) []*entity.Novel {
	novels := make([]*entity.Novel, 0, len(docs))
	for _, d := range docs {
		novels = append(novels, entity.NovelFromDocument(d))
	}
	return novels
}

func storeError(err error, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, message)
}
