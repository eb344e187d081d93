package favorite

import (
	"context"
	"testing"
	"time"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/internal/infrastructure/persistence/docstore"
)

func TestFirstChapterResolver(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := docstore.NewMemoryStore(docstore.WithMemoryClock(clk.Now))
	r := NewFirstChapterResolver(store)
	ctx := context.Background()

	got, err := r.Resolve(ctx, "empty")
	if err != nil || got != nil {
		t.Fatalf("Resolve(empty) = %+v, %v, want nil, nil", got, err)
	}

	seed(t, store, repository.VolumePath("n1", "late"), entity.NewVolumeFields("n1", "Late", 2))
	clk.Advance(-time.Hour)
	seed(t, store, repository.VolumePath("n1", "early"), entity.NewVolumeFields("n1", "Early", 1))

	got, err = r.Resolve(ctx, "n1")
	if err != nil || got != nil {
		t.Fatalf("Resolve(volume without chapters) = %+v, %v", got, err)
	}

	clk.Advance(2 * time.Hour)
	seed(t, store, repository.ChapterPath("n1", "early", "second"), entity.NewChapterFields("n1", "early", entity.ChapterInput{Title: "2"}))
	clk.Advance(-30 * time.Minute)
	seed(t, store, repository.ChapterPath("n1", "early", "first"), entity.NewChapterFields("n1", "early", entity.ChapterInput{Title: "1"}))
	seed(t, store, repository.ChapterPath("n1", "late", "other"), entity.NewChapterFields("n1", "late", entity.ChapterInput{Title: "x"}))

	got, err = r.Resolve(ctx, "n1")
	if err != nil || got == nil {
		t.Fatalf("Resolve(volumes) = %+v, %v", got, err)
	}
	if got.VolumeID != "early" || got.ChapterID != "first" || got.Chapter.Title != "1" {
		t.Fatalf("Resolve(volumes) = %+v", got)
	}

	clk.Advance(time.Hour)
	seed(t, store, repository.ChapterPath("n1", "", "flat"), entity.NewChapterFields("n1", "", entity.ChapterInput{Title: "flat"}))
	got, err = r.Resolve(ctx, "n1")
	if err != nil || got == nil || got.ChapterID != "flat" || got.VolumeID != "" {
		t.Fatalf("Resolve(flat) = %+v, %v", got, err)
	}
}
