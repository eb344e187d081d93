package favorite

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
)

// FirstChapterResolver 定位小说的首章
type FirstChapterResolver struct {
	store repository.DocumentStore
}

// NewFirstChapterResolver 创建首章定位器
func NewFirstChapterResolver(store repository.DocumentStore) *FirstChapterResolver {
	return &FirstChapterResolver{store: store}
}

// Resolve 先查平铺章节，再查最早的卷下最早的章节；都没有时返回 nil, nil
func (r *FirstChapterResolver) Resolve(ctx context.Context, novelID string) (*entity.FirstChapter, error) {
	ctx, span := tracer.Start(ctx, "favorite.FirstChapterResolver.Resolve",
		trace.WithAttributes(attribute.String("novel.id", novelID)))
	defer span.End()

	earliest := repository.Query{
		OrderBy: []repository.Order{repository.Asc(entity.FieldCreatedAt)},
		Limit:   1,
	}

	flat, err := r.store.Query(ctx, repository.ChaptersCollection(novelID, ""), earliest)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(flat) > 0 {
		return &entity.FirstChapter{
			ChapterID: flat[0].ID,
			Chapter:   entity.ChapterFromDocument(flat[0], novelID, ""),
		}, nil
	}

	volumes, err := r.store.Query(ctx, repository.VolumesCollection(novelID), earliest)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(volumes) == 0 {
		return nil, nil
	}
	volumeID := volumes[0].ID

	chapters, err := r.store.Query(ctx, repository.ChaptersCollection(novelID, volumeID), earliest)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, nil
	}
	return &entity.FirstChapter{
		ChapterID: chapters[0].ID,
		VolumeID:  volumeID,
		Chapter:   entity.ChapterFromDocument(chapters[0], novelID, volumeID),
	}, nil
}
