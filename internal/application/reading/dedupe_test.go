package reading

import (
	"testing"
	"time"

	"z-novel-reader-api/internal/domain/entity"
)

func TestDedupeKeepsLatestPerNovel(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []*entity.ReadingProgress{
		progressAt("a-1", "A", base.Add(1*time.Minute)),
		progressAt("a-3", "A", base.Add(3*time.Minute)),
		progressAt("b-2", "B", base.Add(2*time.Minute)),
	}

	got := Dedupe(records, DefaultRecentLimit)
	if want := []string{"a-3", "b-2"}; !sameIDs(ids(got), want) {
		t.Fatalf("Dedupe() = %v, want %v", ids(got), want)
	}
}

func TestDedupeTruncatesAndOrders(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []*entity.ReadingProgress
	for i, novel := range []string{"n1", "n2", "n3", "n4", "n5", "n6", "n7"} {
		records = append(records, progressAt(novel+"-p", novel, base.Add(time.Duration(i)*time.Hour)))
	}

	got := Dedupe(records, DefaultRecentLimit)
	want := []string{"n7-p", "n6-p", "n5-p", "n4-p", "n3-p"}
	if !sameIDs(ids(got), want) {
		t.Fatalf("Dedupe() = %v, want %v", ids(got), want)
	}
	for i := 1; i < len(got); i++ {
		if got[i].UpdatedTime().After(got[i-1].UpdatedTime()) {
			t.Fatalf("result not ordered by updated_at desc at %d", i)
		}
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []*entity.ReadingProgress{
		progressAt("x", "A", base),
		progressAt("y", "A", base),
		progressAt("z", "B", base),
		progressAt("w", "C", base.Add(time.Second)),
	}

	once := Dedupe(records, 10)
	twice := Dedupe(once, 10)
	if !sameIDs(ids(once), ids(twice)) {
		t.Fatalf("Dedupe not idempotent: %v then %v", ids(once), ids(twice))
	}
	// 同一时间的两条记录中 ID 较大者保留，同时间的结果按 ID 升序
	if want := []string{"w", "y", "z"}; !sameIDs(ids(once), want) {
		t.Fatalf("Dedupe() = %v, want %v", ids(once), want)
	}
}

func TestDedupeSkipsIncompleteRecords(t *testing.T) {
	now := time.Now()
	records := []*entity.ReadingProgress{
		nil,
		{ID: "no-novel", VolumeID: "v", ChapterID: "c", UpdatedAt: &now},
		{ID: "no-volume", NovelID: "A", ChapterID: "c", UpdatedAt: &now},
		{ID: "no-chapter", NovelID: "A", VolumeID: "v", UpdatedAt: &now},
		progressAt("ok", "B", now),
	}
	if got := Dedupe(records, 5); !sameIDs(ids(got), []string{"ok"}) {
		t.Fatalf("Dedupe() = %v, want [ok]", ids(got))
	}
}

func TestDedupeLimitBounds(t *testing.T) {
	now := time.Now()
	records := []*entity.ReadingProgress{progressAt("a", "A", now), progressAt("b", "B", now)}

	if got := Dedupe(records, 0); len(got) != 0 {
		t.Fatalf("limit 0 = %v", ids(got))
	}
	if got := Dedupe(records, -3); len(got) != 0 {
		t.Fatalf("negative limit = %v", ids(got))
	}
	if got := Dedupe(nil, 5); got == nil || len(got) != 0 {
		t.Fatalf("empty input = %#v, want empty slice", got)
	}
}

func TestDedupeMissingTimestampSortsLast(t *testing.T) {
	now := time.Now()
	records := []*entity.ReadingProgress{
		{ID: "undated", NovelID: "A", VolumeID: "v", ChapterID: "c"},
		progressAt("dated", "B", now),
	}
	if got := Dedupe(records, 5); !sameIDs(ids(got), []string{"dated", "undated"}) {
		t.Fatalf("Dedupe() = %v", ids(got))
	}
}
