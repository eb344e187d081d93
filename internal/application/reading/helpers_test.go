package reading

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/internal/infrastructure/persistence/docstore"
	"z-novel-reader-api/internal/infrastructure/persistence/docstore/docstoretest"
	"z-novel-reader-api/internal/infrastructure/persistence/memcache"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("cache unavailable")
}

func (failingCache) Set(context.Context, string, string) error {
	return errors.New("cache unavailable")
}

type fixture struct {
	clock   *testClock
	store   *docstoretest.Store
	cache   *memcache.Cache
	service *ProgressService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := newTestClock()
	store := docstoretest.New(docstore.WithMemoryClock(clk.Now))
	cache := memcache.New(0)
	svc := NewProgressService(store, cache, NewDetailJoiner(store, 4))
	svc.now = clk.Now
	return &fixture{clock: clk, store: store, cache: cache, service: svc}
}

func mustSet(t *testing.T, store repository.DocumentStore, path string, fields map[string]any) {
	t.Helper()
	if err := store.Set(context.Background(), path, fields); err != nil {
		t.Fatalf("Set(%s) error = %v", path, err)
	}
}

func seedNovel(t *testing.T, store repository.DocumentStore, novelID, title string) {
	t.Helper()
	fields := entity.NewNovelFields("owner", entity.NovelInput{Title: title, Author: "Author " + title})
	mustSet(t, store, repository.NovelPath(novelID), fields)
}

func seedVolume(t *testing.T, store repository.DocumentStore, novelID, volumeID string, number int64) {
	t.Helper()
	mustSet(t, store, repository.VolumePath(novelID, volumeID), entity.NewVolumeFields(novelID, "Volume "+volumeID, number))
}

func seedChapter(t *testing.T, store repository.DocumentStore, novelID, volumeID, chapterID string, number int) {
	t.Helper()
	fields := entity.NewChapterFields(novelID, volumeID, entity.ChapterInput{
		Title:         "Chapter " + chapterID,
		ChapterNumber: number,
		Content:       "<p>hello reader</p>",
	})
	mustSet(t, store, repository.ChapterPath(novelID, volumeID, chapterID), fields)
}

func progressAt(id, novelID string, at time.Time) *entity.ReadingProgress {
	return &entity.ReadingProgress{
		ID:        id,
		NovelID:   novelID,
		VolumeID:  "v1",
		ChapterID: "c1",
		UpdatedAt: &at,
	}
}

func ids(records []*entity.ReadingProgress) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
