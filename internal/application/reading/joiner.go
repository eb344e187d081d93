package reading

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/logger"
	"z-novel-reader-api/pkg/metrics"
)

// DefaultFanout 详情聚合的默认并发上限
const DefaultFanout = 16

var (
	errInvalidRecord  = errors.New("progress record lacks novel or chapter id")
	errNovelMissing   = errors.New("novel not found")
	errVolumeMissing  = errors.New("volume not found")
	errChapterMissing = errors.New("chapter not found")
)

// DetailJoiner 为阅读进度并发关联小说、卷、章节文档
type DetailJoiner struct {
	store  repository.DocumentStore
	fanout int
}

// NewDetailJoiner 创建详情聚合器，fanout 不大于 0 时使用默认值
func NewDetailJoiner(store repository.DocumentStore, fanout int) *DetailJoiner {
	if fanout <= 0 {
		fanout = DefaultFanout
	}
	return &DetailJoiner{store: store, fanout: fanout}
}

// Enrich 生成组合视图；任一父文档缺失或读取失败只丢弃该条目，输出保持输入顺序
func (j *DetailJoiner) Enrich(ctx context.Context, records []*entity.ReadingProgress) []*entity.CompositeView {
	ctx, span := tracer.Start(ctx, "reading.DetailJoiner.Enrich",
		trace.WithAttributes(attribute.Int("enrich.input_count", len(records))))
	defer span.End()

	slots := make([]*entity.CompositeView, len(records))
	var sf singleflight.Group
	var g errgroup.Group
	g.SetLimit(j.fanout)

	for i, rec := range records {
		g.Go(func() error {
			view, err := j.enrichOne(ctx, &sf, rec)
			if err != nil {
				reason := dropReason(err)
				metrics.EnrichDroppedTotal.WithLabelValues(reason).Inc()
				attrs := []any{"reason", reason, "error", err}
				if rec != nil {
					attrs = append(attrs, "progress_id", rec.ID, "novel_id", rec.NovelID)
				}
				logger.Warn(ctx, "dropping reading progress entry", attrs...)
				return nil
			}
			slots[i] = view
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*entity.CompositeView, 0, len(slots))
	for _, v := range slots {
		if v != nil {
			out = append(out, v)
		}
	}
	span.SetAttributes(attribute.Int("enrich.output_count", len(out)))
	return out
}

func (j *DetailJoiner) enrichOne(ctx context.Context, sf *singleflight.Group, rec *entity.ReadingProgress) (*entity.CompositeView, error) {
	if rec == nil || rec.NovelID == "" || rec.ChapterID == "" {
		return nil, errInvalidRecord
	}

	fetch := func(path string, missing error) (*repository.Document, error) {
		v, err, _ := sf.Do(path, func() (any, error) {
			return j.store.Get(ctx, path)
		})
		if err != nil {
			return nil, err
		}
		doc, _ := v.(*repository.Document)
		if doc == nil {
			return nil, missing
		}
		return doc, nil
	}

	var novelDoc, volumeDoc, chapterDoc *repository.Document
	var g errgroup.Group
	g.Go(func() error {
		var err error
		novelDoc, err = fetch(repository.NovelPath(rec.NovelID), errNovelMissing)
		return err
	})
	if rec.VolumeID != "" {
		g.Go(func() error {
			var err error
			volumeDoc, err = fetch(repository.VolumePath(rec.NovelID, rec.VolumeID), errVolumeMissing)
			return err
		})
	}
	g.Go(func() error {
		var err error
		chapterDoc, err = fetch(repository.ChapterPath(rec.NovelID, rec.VolumeID, rec.ChapterID), errChapterMissing)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &entity.CompositeView{
		Progress: rec,
		Novel:    entity.NovelFromDocument(novelDoc).Summary(),
		Chapter:  entity.ChapterFromDocument(chapterDoc, rec.NovelID, rec.VolumeID).Summary(),
	}
	if volumeDoc != nil {
		view.Volume = entity.VolumeFromDocument(volumeDoc, rec.NovelID).Summary()
	}
	return view, nil
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, errInvalidRecord):
		return "invalid"
	case errors.Is(err, errNovelMissing):
		return "novel_missing"
	case errors.Is(err, errVolumeMissing):
		return "volume_missing"
	case errors.Is(err, errChapterMissing):
		return "chapter_missing"
	default:
		return "fetch_error"
	}
}
