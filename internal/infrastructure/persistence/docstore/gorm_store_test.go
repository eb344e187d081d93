package docstore

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"z-novel-reader-api/internal/config"
	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
	"z-novel-reader-api/pkg/timestamp"
)

func newSQLiteStore(t *testing.T, now time.Time) *GormStore {
	t.Helper()
	client, err := NewClient(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
		LogLevel:   "silent",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewGormStore(client, WithGormClock(fixedClock(now)))
}

func TestGormStoreSetGetRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	s := newSQLiteStore(t, now)
	ctx := context.Background()

	err := s.Set(ctx, "users/u1/reading_progress/n1_v1_c1", map[string]any{
		"novelId":    "n1",
		"position":   int64(120),
		"created_at": timestamp.ServerTimestamp{},
	})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	d, err := s.Get(ctx, "users/u1/reading_progress/n1_v1_c1")
	if err != nil || d == nil {
		t.Fatalf("Get() = %v, %v", d, err)
	}
	if d.ID != "n1_v1_c1" {
		t.Fatalf("ID = %q", d.ID)
	}
	if d.Fields["novelId"] != "n1" {
		t.Fatalf("novelId = %v", d.Fields["novelId"])
	}
	if pos, ok := toFloat(d.Fields["position"]); !ok || pos != 120 {
		t.Fatalf("position = %#v", d.Fields["position"])
	}
	got := timestamp.Normalize(d.Fields["created_at"])
	if got == nil || !got.Equal(now) {
		t.Fatalf("created_at = %v, want %v", got, now)
	}
}

func TestGormStoreGetMissing(t *testing.T) {
	s := newSQLiteStore(t, time.Now())
	d, err := s.Get(context.Background(), "novels/none")
	if err != nil || d != nil {
		t.Fatalf("Get() = %v, %v, want nil, nil", d, err)
	}
}

func TestGormStoreUpdateMergesAndRequiresDocument(t *testing.T) {
	s := newSQLiteStore(t, time.Now())
	ctx := context.Background()

	if err := s.Update(ctx, "novels/n1", map[string]any{"title": "x"}); !apperrors.IsNotFound(err) {
		t.Fatalf("Update(missing) error = %v, want not found", err)
	}

	_ = s.Set(ctx, "novels/n1", map[string]any{"title": "Dune", "view_count": 1})
	if err := s.Update(ctx, "novels/n1", map[string]any{"view_count": 2}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	d, _ := s.Get(ctx, "novels/n1")
	if d.Fields["title"] != "Dune" {
		t.Fatalf("title = %v", d.Fields["title"])
	}
	if n, _ := toFloat(d.Fields["view_count"]); n != 2 {
		t.Fatalf("view_count = %v", d.Fields["view_count"])
	}
}

func TestGormStoreSetOverwriteAndMerge(t *testing.T) {
	s := newSQLiteStore(t, time.Now())
	ctx := context.Background()
	path := "users/u1/bookmarks/b1"

	_ = s.Set(ctx, path, map[string]any{"a": "1", "b": "2"})
	_ = s.Set(ctx, path, map[string]any{"b": "3"}, repository.WithMerge())
	d, _ := s.Get(ctx, path)
	if d.Fields["a"] != "1" || d.Fields["b"] != "3" {
		t.Fatalf("merged = %v", d.Fields)
	}

	_ = s.Set(ctx, path, map[string]any{"c": "4"})
	d, _ = s.Get(ctx, path)
	if _, ok := d.Fields["a"]; ok || d.Fields["c"] != "4" {
		t.Fatalf("overwritten = %v", d.Fields)
	}
}

func TestGormStoreQueryOrdersByTimestamp(t *testing.T) {
	s := newSQLiteStore(t, time.Now())
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = s.Set(ctx, "novels/n1/chapters/late", map[string]any{"created_at": base.Add(time.Hour)})
	_ = s.Set(ctx, "novels/n1/chapters/early", map[string]any{"created_at": base})
	_ = s.Set(ctx, "novels/n2/chapters/other", map[string]any{"created_at": base.Add(-time.Hour)})

	docs, err := s.Query(ctx, "novels/n1/chapters", repository.Query{
		OrderBy: []repository.Order{repository.Asc("created_at")},
		Limit:   1,
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "early" {
		t.Fatalf("Query() = %v, want [early]", paths(docs))
	}
}

func TestGormStoreDelete(t *testing.T) {
	s := newSQLiteStore(t, time.Now())
	ctx := context.Background()
	_ = s.Set(ctx, "novels/n1", map[string]any{"title": "x"})
	if err := s.Delete(ctx, "novels/n1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if d, _ := s.Get(ctx, "novels/n1"); d != nil {
		t.Fatalf("Get() after delete = %v", d)
	}
}

func dryRunStore(t *testing.T, dialector gorm.Dialector) *GormStore {
	t.Helper()
	db, err := gorm.Open(dialector, &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return NewGormStore(NewClientFromDB(db))
}

func TestGormStoreForUpdateByDialect(t *testing.T) {
	base := newSQLiteStore(t, time.Now())
	sqlDB, err := base.client.db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}

	tests := []struct {
		name     string
		store    *GormStore
		wantLock bool
	}{
		{name: "postgres", store: dryRunStore(t, postgres.New(postgres.Config{Conn: sqlDB})), wantLock: true},
		{name: "mysql", store: dryRunStore(t, mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true})), wantLock: true},
		{name: "sqlite", store: base, wantLock: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := tt.store.client.db.Session(&gorm.Session{DryRun: true})
			var row documentModel
			stmt := tt.store.forUpdate(db).Where("path = ?", "novels/n1").Take(&row).Statement
			got := strings.Contains(strings.ToUpper(stmt.SQL.String()), "FOR UPDATE")
			if got != tt.wantLock {
				t.Fatalf("sql = %q, want lock %v", stmt.SQL.String(), tt.wantLock)
			}
		})
	}
}

func TestGormStoreTxOptionsForSQLServer(t *testing.T) {
	base := newSQLiteStore(t, time.Now())
	if opts := base.txOptions(); opts != nil {
		t.Fatalf("sqlite txOptions = %v, want nil", opts)
	}

	sqlDB, err := base.client.db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	s := dryRunStore(t, sqlserver.New(sqlserver.Config{Conn: sqlDB}))
	opts := s.txOptions()
	if len(opts) != 1 || opts[0].Isolation != sql.LevelRepeatableRead {
		t.Fatalf("sqlserver txOptions = %v, want repeatable read", opts)
	}
}
