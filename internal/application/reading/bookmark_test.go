package reading

import (
	"context"
	"errors"
	"testing"
	"time"

	"z-novel-reader-api/internal/domain/entity"
	apperrors "z-novel-reader-api/pkg/errors"
)

func TestBookmarkSaveAndGet(t *testing.T) {
	f := newFixture(t)
	svc := NewBookmarkService(f.store)
	ctx := context.Background()

	saved, err := svc.SaveBookmark(ctx, "u1", entity.BookmarkInput{
		NovelID: "n1", VolumeID: "v1", ChapterID: "c1", Position: 64,
	})
	if err != nil {
		t.Fatalf("SaveBookmark() error = %v", err)
	}
	if saved.ID == "" || saved.Position != 64 || saved.CreatedAt == nil {
		t.Fatalf("SaveBookmark() = %+v", saved)
	}

	f.clock.Advance(time.Minute)
	updated, err := svc.SaveBookmark(ctx, "u1", entity.BookmarkInput{
		BookmarkID: saved.ID, NovelID: "n1", VolumeID: "v1", ChapterID: "c2", Position: 8,
	})
	if err != nil {
		t.Fatalf("SaveBookmark(update) error = %v", err)
	}
	if updated.ID != saved.ID || updated.ChapterID != "c2" || !updated.CreatedAt.Equal(*saved.CreatedAt) {
		t.Fatalf("updated bookmark = %+v", updated)
	}
	if !updated.UpdatedAt.After(*saved.UpdatedAt) {
		t.Fatalf("updated_at not advanced: %v", updated.UpdatedAt)
	}
}

func TestBookmarkErrors(t *testing.T) {
	f := newFixture(t)
	svc := NewBookmarkService(f.store)
	ctx := context.Background()

	if _, err := svc.SaveBookmark(ctx, "", entity.BookmarkInput{}); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("no user error = %v", err)
	}
	if _, err := svc.SaveBookmark(ctx, "u1", entity.BookmarkInput{NovelID: "n1"}); !errors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("missing ids error = %v", err)
	}
	if _, err := svc.GetBookmark(ctx, "u1", "missing"); !errors.Is(err, apperrors.ErrBookmarkNotFound) {
		t.Fatalf("GetBookmark(missing) error = %v", err)
	}
	if _, err := svc.GetBookmark(ctx, "u1", ""); !errors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("GetBookmark(empty) error = %v", err)
	}
}
