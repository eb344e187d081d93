package reading

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
)

func record(id, novelID, volumeID, chapterID string) *entity.ReadingProgress {
	now := time.Now()
	return &entity.ReadingProgress{
		ID:        id,
		NovelID:   novelID,
		VolumeID:  volumeID,
		ChapterID: chapterID,
		Position:  1,
		UpdatedAt: &now,
	}
}

func viewIDs(views []*entity.CompositeView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Progress.ID
	}
	return out
}

func TestEnrichDropsEntriesWithMissingParents(t *testing.T) {
	f := newFixture(t)
	seedNovel(t, f.store, "ok", "Complete")
	seedVolume(t, f.store, "ok", "v1", 1)
	seedChapter(t, f.store, "ok", "v1", "c1", 1)

	seedNovel(t, f.store, "novol", "No Volume")
	seedChapter(t, f.store, "novol", "v1", "c1", 1)

	seedNovel(t, f.store, "nochap", "No Chapter")
	seedVolume(t, f.store, "nochap", "v1", 1)

	seedVolume(t, f.store, "nonovel", "v1", 1)
	seedChapter(t, f.store, "nonovel", "v1", "c1", 1)

	records := []*entity.ReadingProgress{
		record("r-novol", "novol", "v1", "c1"),
		record("r-ok", "ok", "v1", "c1"),
		record("r-nochap", "nochap", "v1", "c1"),
		record("r-nonovel", "nonovel", "v1", "c1"),
		record("r-invalid", "", "v1", "c1"),
		nil,
	}

	views := f.service.joiner.Enrich(context.Background(), records)
	if want := []string{"r-ok"}; !sameIDs(viewIDs(views), want) {
		t.Fatalf("Enrich() = %v, want %v", viewIDs(views), want)
	}

	v := views[0]
	if v.Novel.ID != "ok" || v.Novel.Title != "Complete" || v.Novel.Author != "Author Complete" {
		t.Fatalf("novel = %+v", v.Novel)
	}
	if v.Novel.CreatedAt == nil || v.Chapter.CreatedAt == nil {
		t.Fatal("timestamps not normalized")
	}
	if _, ok := v.Novel.Fields[entity.FieldCreatedAt].(time.Time); !ok {
		t.Fatalf("raw created_at = %#v, want time.Time", v.Novel.Fields[entity.FieldCreatedAt])
	}
	if v.Volume == nil || v.Volume.ID != "v1" || v.Volume.VolumeNumber != 1 {
		t.Fatalf("volume = %+v", v.Volume)
	}
	if v.Chapter.ID != "c1" || v.Chapter.Title != "Chapter c1" {
		t.Fatalf("chapter = %+v", v.Chapter)
	}
}

func TestEnrichPreservesOrderAndIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	var records []*entity.ReadingProgress
	for _, n := range []string{"n1", "n2", "n3", "n4", "n5"} {
		seedNovel(t, f.store, n, n)
		seedVolume(t, f.store, n, "v1", 1)
		seedChapter(t, f.store, n, "v1", "c1", 1)
		records = append(records, record("r-"+n, n, "v1", "c1"))
	}
	f.store.FailGet = func(path string) error {
		if strings.HasPrefix(path, repository.NovelPath("n3")) {
			return errors.New("permission denied")
		}
		return nil
	}

	views := f.service.joiner.Enrich(context.Background(), records)
	if want := []string{"r-n1", "r-n2", "r-n4", "r-n5"}; !sameIDs(viewIDs(views), want) {
		t.Fatalf("Enrich() = %v, want %v", viewIDs(views), want)
	}
}

func TestEnrichReadsFlatChapterWithoutVolume(t *testing.T) {
	f := newFixture(t)
	seedNovel(t, f.store, "flat", "Flat")
	seedChapter(t, f.store, "flat", "", "c1", 1)

	views := f.service.joiner.Enrich(context.Background(), []*entity.ReadingProgress{
		record("r-flat", "flat", "", "c1"),
	})
	if len(views) != 1 {
		t.Fatalf("Enrich() len = %d, want 1", len(views))
	}
	if views[0].Volume != nil {
		t.Fatalf("volume = %+v, want nil", views[0].Volume)
	}
}

func TestEnrichSharesFetchesForDuplicatePaths(t *testing.T) {
	f := newFixture(t)
	seedNovel(t, f.store, "n1", "One")
	seedVolume(t, f.store, "n1", "v1", 1)
	seedChapter(t, f.store, "n1", "v1", "c1", 1)
	seedChapter(t, f.store, "n1", "v1", "c2", 2)

	views := f.service.joiner.Enrich(context.Background(), []*entity.ReadingProgress{
		record("a", "n1", "v1", "c1"),
		record("b", "n1", "v1", "c2"),
	})
	if len(views) != 2 {
		t.Fatalf("Enrich() len = %d, want 2", len(views))
	}
	// 2 条记录各 3 次读取，相同路径并发时会被合并
	if n := f.store.Calls("get"); n > 6 || n < 4 {
		t.Fatalf("get calls = %d, want between 4 and 6", n)
	}
}

func TestEnrichEmpty(t *testing.T) {
	f := newFixture(t)
	views := f.service.joiner.Enrich(context.Background(), nil)
	if views == nil || len(views) != 0 {
		t.Fatalf("Enrich(nil) = %#v", views)
	}
	if f.store.TotalCalls() != 0 {
		t.Fatalf("store calls = %d", f.store.TotalCalls())
	}
}
