package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
	"z-novel-reader-api/pkg/timestamp"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Get(context.Background(), "novels/missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Get() = %+v, want nil", got)
	}
}

func TestMemoryStoreInvalidPath(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "novels"); !errors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("Get(collection path) error = %v, want invalid param", err)
	}
	if _, err := s.Query(context.Background(), "novels/n1", repository.Query{}); err == nil {
		t.Fatal("Query(document path) expected error")
	}
}

func TestMemoryStoreSetResolvesServerTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(WithMemoryClock(fixedClock(now)))
	ctx := context.Background()

	if err := s.Set(ctx, "novels/n1", map[string]any{
		"title":      "Dune",
		"created_at": timestamp.ServerTimestamp{},
	}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	d, err := s.Get(ctx, "novels/n1")
	if err != nil || d == nil {
		t.Fatalf("Get() = %v, %v", d, err)
	}
	if d.ID != "n1" {
		t.Fatalf("ID = %q", d.ID)
	}
	got := timestamp.Normalize(d.Fields["created_at"])
	if got == nil || !got.Equal(now) {
		t.Fatalf("created_at = %v, want %v", got, now)
	}
}

func TestMemoryStoreMergeAndOverwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	path := "users/u1/favorites/n1"

	_ = s.Set(ctx, path, map[string]any{"novelId": "n1", "note": "x"})
	if err := s.Set(ctx, path, map[string]any{"note": "y"}, repository.WithMerge()); err != nil {
		t.Fatalf("Set(merge) error = %v", err)
	}
	d, _ := s.Get(ctx, path)
	if d.Fields["novelId"] != "n1" || d.Fields["note"] != "y" {
		t.Fatalf("merged fields = %v", d.Fields)
	}

	_ = s.Set(ctx, path, map[string]any{"note": "z"})
	d, _ = s.Get(ctx, path)
	if _, ok := d.Fields["novelId"]; ok {
		t.Fatalf("overwrite kept old field: %v", d.Fields)
	}
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "novels/none", map[string]any{"title": "x"})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("Update() error = %v, want not found", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, "novels/n1", map[string]any{"genres": []any{"a"}})

	d, _ := s.Get(ctx, "novels/n1")
	d.Fields["genres"].([]any)[0] = "mutated"
	d.Fields["title"] = "mutated"

	again, _ := s.Get(ctx, "novels/n1")
	if again.Fields["genres"].([]any)[0] != "a" {
		t.Fatal("stored slice was mutated through a returned document")
	}
	if _, ok := again.Fields["title"]; ok {
		t.Fatal("stored map was mutated through a returned document")
	}
}

func TestMemoryStoreAddAndQueryScopedToCollection(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Add(ctx, "novels/n1/volumes", map[string]any{"title": "Vol 1"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(id) != 20 {
		t.Fatalf("Add() id = %q, want 20 chars", id)
	}
	_ = s.Set(ctx, "novels/n2/volumes/v9", map[string]any{"title": "other"})
	_ = s.Set(ctx, "novels/n1/volumes/"+id+"/chapters/c1", map[string]any{"title": "nested"})

	docs, err := s.Query(ctx, "novels/n1/volumes", repository.Query{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != id {
		t.Fatalf("Query() = %v, want only %s", paths(docs), id)
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, "novels/n1", map[string]any{})
	if err := s.Delete(ctx, "novels/n1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "novels/n1"); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d", s.Len())
	}
}

func TestMemoryStoreNestedTransaction(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	err := s.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.WithTransaction(txCtx, func(inner context.Context) error {
			return s.Set(inner, "novels/n1", map[string]any{"title": "t"})
		})
	})
	if err != nil {
		t.Fatalf("WithTransaction() error = %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d", s.Len())
	}
}
