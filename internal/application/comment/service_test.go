package comment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"z-novel-reader-api/internal/config"
	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/internal/infrastructure/persistence/docstore"
	"z-novel-reader-api/internal/infrastructure/persistence/docstore/docstoretest"
	apperrors "z-novel-reader-api/pkg/errors"
)

var ref = ChapterRef{NovelID: "n1", VolumeID: "v1", ChapterID: "c1"}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T) (*Service, *docstoretest.Store, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)}
	store := docstoretest.New(docstore.WithMemoryClock(clk.Now))
	if err := store.Set(context.Background(), repository.ChapterPath(ref.NovelID, ref.VolumeID, ref.ChapterID), map[string]any{
		entity.FieldTitle: "Chapter 1",
	}); err != nil {
		t.Fatalf("seed chapter: %v", err)
	}
	return NewService(store, store), store, clk
}

func TestAddCommentDefaults(t *testing.T) {
	svc, _, clk := newTestService(t)

	c, err := svc.AddComment(context.Background(), entity.Author{UserID: "u1"}, ref, "  nice chapter ")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if c.Content != "nice chapter" || c.Name != DefaultAuthorName || c.UserID != "u1" {
		t.Fatalf("comment = %+v", c)
	}
	if c.Likes != 0 || len(c.LikedBy) != 0 {
		t.Fatalf("fresh comment likes = %d %v", c.Likes, c.LikedBy)
	}
	if c.CreatedAt == nil || !c.CreatedAt.Equal(clk.Now()) {
		t.Fatalf("CreatedAt = %v", c.CreatedAt)
	}
}

func TestAddCommentValidation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	before := store.TotalCalls()

	tests := []struct {
		name    string
		author  entity.Author
		ref     ChapterRef
		content string
		want    error
	}{
		{"anonymous", entity.Author{}, ref, "x", apperrors.ErrUnauthenticated},
		{"blank content", entity.Author{UserID: "u1"}, ref, "   ", apperrors.ErrInvalidParam},
		{"too long", entity.Author{UserID: "u1"}, ref, strings.Repeat("a", MaxContentLength+1), apperrors.ErrInvalidParam},
		{"missing chapter id", entity.Author{UserID: "u1"}, ChapterRef{NovelID: "n1"}, "x", apperrors.ErrInvalidParam},
		{"chapter id with separator", entity.Author{UserID: "u1"}, ChapterRef{NovelID: "n1", VolumeID: "v1", ChapterID: "c1/comments/x"}, "x", apperrors.ErrInvalidParam},
		{"volume id with separator", entity.Author{UserID: "u1"}, ChapterRef{NovelID: "n1", VolumeID: "v1/chapters/c1", ChapterID: "c1"}, "x", apperrors.ErrInvalidParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddComment(ctx, tt.author, tt.ref, tt.content); !errors.Is(err, tt.want) {
				t.Fatalf("AddComment() error = %v, want %v", err, tt.want)
			}
		})
	}
	if store.TotalCalls() != before {
		t.Fatalf("validation touched the store: %d calls", store.TotalCalls()-before)
	}

	missing := ChapterRef{NovelID: "n1", VolumeID: "v1", ChapterID: "nope"}
	if _, err := svc.AddComment(ctx, entity.Author{UserID: "u1"}, missing, "x"); !errors.Is(err, apperrors.ErrChapterNotFound) {
		t.Fatalf("missing chapter error = %v", err)
	}
}

func TestListCommentsOrdering(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()
	author := entity.Author{UserID: "u1", Name: "Reader"}

	older, _ := svc.AddComment(ctx, author, ref, "older")
	clk.Advance(time.Minute)
	newer, _ := svc.AddComment(ctx, author, ref, "newer")
	clk.Advance(time.Minute)
	if _, err := svc.AddReply(ctx, author, ref, older.ID, "reply one"); err != nil {
		t.Fatalf("AddReply() error = %v", err)
	}
	clk.Advance(time.Minute)
	if _, err := svc.AddReply(ctx, author, ref, older.ID, "reply two"); err != nil {
		t.Fatalf("AddReply() error = %v", err)
	}

	comments, err := svc.ListComments(ctx, ref)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 2 || comments[0].ID != newer.ID || comments[1].ID != older.ID {
		t.Fatalf("comment order = %+v", comments)
	}
	if len(comments[0].Replies) != 0 {
		t.Fatalf("newer replies = %+v", comments[0].Replies)
	}
	replies := comments[1].Replies
	if len(replies) != 2 || replies[0].Content != "reply one" || replies[1].Content != "reply two" {
		t.Fatalf("replies = %+v", replies)
	}
}

func TestAddReplyToMissingComment(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddReply(context.Background(), entity.Author{UserID: "u1"}, ref, "ghost", "hello")
	if !errors.Is(err, apperrors.ErrCommentNotFound) {
		t.Fatalf("AddReply() error = %v", err)
	}
}

func TestToggleLikeKeepsCountInSync(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	c, _ := svc.AddComment(ctx, entity.Author{UserID: "author"}, ref, "hi")

	steps := []struct {
		user      string
		wantLiked bool
		wantLikes int
	}{
		{"u1", true, 1},
		{"u2", true, 2},
		{"u1", false, 1},
		{"u1", true, 2},
	}
	for i, s := range steps {
		got, err := svc.ToggleLike(ctx, s.user, ref, c.ID, "")
		if err != nil {
			t.Fatalf("step %d ToggleLike() error = %v", i, err)
		}
		if got.Liked != s.wantLiked || got.Likes != s.wantLikes {
			t.Fatalf("step %d = %+v, want liked=%v likes=%d", i, got, s.wantLiked, s.wantLikes)
		}
	}

	doc, err := store.Get(ctx, repository.CommentPath(ref.NovelID, ref.VolumeID, ref.ChapterID, c.ID))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	stored := entity.CommentFromDocument(doc)
	if stored.Likes != len(stored.LikedBy) || stored.Likes != 2 {
		t.Fatalf("stored likes = %d likedBy = %v", stored.Likes, stored.LikedBy)
	}
}

func TestToggleLikeConcurrentOnGormStore(t *testing.T) {
	client, err := docstore.NewClient(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
		LogLevel:   "silent",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	if err := client.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	store := docstore.NewGormStore(client)
	if err := store.Set(ctx, repository.ChapterPath(ref.NovelID, ref.VolumeID, ref.ChapterID), map[string]any{
		entity.FieldTitle: "Chapter 1",
	}); err != nil {
		t.Fatalf("seed chapter: %v", err)
	}
	svc := NewService(store, store)
	c, err := svc.AddComment(ctx, entity.Author{UserID: "author"}, ref, "hi")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}

	const users = 8
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			if _, err := svc.ToggleLike(ctx, user, ref, c.ID, ""); err != nil {
				errs <- err
			}
		}(string(rune('a' + i)))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("ToggleLike() error = %v", err)
	}

	doc, err := store.Get(ctx, repository.CommentPath(ref.NovelID, ref.VolumeID, ref.ChapterID, c.ID))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	stored := entity.CommentFromDocument(doc)
	if stored.Likes != users || len(stored.LikedBy) != users {
		t.Fatalf("likes = %d likedBy = %v, want %d each", stored.Likes, stored.LikedBy, users)
	}
}

func TestToggleLikeRepairsDriftedCount(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	path := repository.CommentPath(ref.NovelID, ref.VolumeID, ref.ChapterID, "cm1")
	if err := store.Set(ctx, path, map[string]any{
		entity.FieldCommentContent: "legacy",
		entity.FieldLikes:          7,
		entity.FieldLikedBy:        []any{"a", "a", "b"},
	}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := svc.ToggleLike(ctx, "c", ref, "cm1", "")
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if !got.Liked || got.Likes != 3 {
		t.Fatalf("ToggleLike() = %+v, want liked with 3 likes", got)
	}
}

func TestToggleLikeOnReply(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	author := entity.Author{UserID: "u1"}
	c, _ := svc.AddComment(ctx, author, ref, "top")
	r, err := svc.AddReply(ctx, author, ref, c.ID, "reply")
	if err != nil {
		t.Fatalf("AddReply() error = %v", err)
	}

	got, err := svc.ToggleLike(ctx, "u2", ref, c.ID, r.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if !got.Liked || got.Likes != 1 {
		t.Fatalf("reply like = %+v", got)
	}

	comments, _ := svc.ListComments(ctx, ref)
	if comments[0].Likes != 0 || comments[0].Replies[0].Likes != 1 {
		t.Fatalf("like landed on wrong document: %+v", comments[0])
	}

	if _, err := svc.ToggleLike(ctx, "u2", ref, c.ID, "ghost"); !errors.Is(err, apperrors.ErrCommentNotFound) {
		t.Fatalf("missing reply error = %v", err)
	}
	if _, err := svc.ToggleLike(ctx, "", ref, c.ID, ""); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("anonymous like error = %v", err)
	}
}
