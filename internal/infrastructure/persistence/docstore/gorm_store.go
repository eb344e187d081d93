package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
	"z-novel-reader-api/pkg/metrics"
)

// GormStore 基于关系库单表 JSON 列的文档存储
//
// 查询按集合取出全部文档后在进程内过滤排序，各方言的 JSON 查询语法不统一。
type GormStore struct {
	client *Client
	now    func() time.Time
}

// GormOption GORM 存储选项
type GormOption func(*GormStore)

// WithGormClock 指定服务端时间来源
func WithGormClock(now func() time.Time) GormOption {
	return func(s *GormStore) { s.now = now }
}

// NewGormStore 创建文档存储
func NewGormStore(client *Client, opts ...GormOption) *GormStore {
	s := &GormStore{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// conn 返回当前上下文中的事务连接或普通连接
func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	if inTx(ctx) {
		return ctx.Value(repository.TxKey{}).(*gorm.DB).WithContext(ctx)
	}
	return s.client.db.WithContext(ctx)
}

func inTx(ctx context.Context) bool {
	tx, ok := ctx.Value(repository.TxKey{}).(*gorm.DB)
	return ok && tx != nil
}

// forUpdate 为事务内的读取加行锁；sqlite 写入本身串行，sqlserver 依靠事务隔离级别
func (s *GormStore) forUpdate(db *gorm.DB) *gorm.DB {
	switch s.client.Driver() {
	case "postgres", "mysql":
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	default:
		return db
	}
}

// txOptions sqlserver 不支持 FOR UPDATE，以可重复读防止丢失更新
func (s *GormStore) txOptions() []*sql.TxOptions {
	if s.client.Driver() == "sqlserver" {
		return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead}}
	}
	return nil
}

func observe(op string, start time.Time) {
	metrics.DocStoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Get 读取文档
func (s *GormStore) Get(ctx context.Context, path string) (*repository.Document, error) {
	ctx, span := tracer.Start(ctx, "docstore.GormStore.Get",
		trace.WithAttributes(attribute.String("doc.path", path)))
	defer span.End()
	defer observe("get", time.Now())

	if _, _, err := repository.ParseDocumentPath(path); err != nil {
		span.RecordError(err)
		return nil, apperrors.Validation("%v", err)
	}

	db := s.conn(ctx)
	if inTx(ctx) {
		// 事务内读取通常紧接着写回，先锁定该行
		db = s.forUpdate(db)
	}

	var row documentModel
	err := db.Where("path = ?", path).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get document %s: %w", path, err)
	}
	return row.toDocument(), nil
}

// Set 写入文档
func (s *GormStore) Set(ctx context.Context, path string, fields map[string]any, opts ...repository.SetOption) error {
	ctx, span := tracer.Start(ctx, "docstore.GormStore.Set",
		trace.WithAttributes(attribute.String("doc.path", path)))
	defer span.End()
	defer observe("set", time.Now())

	collection, id, err := repository.ParseDocumentPath(path)
	if err != nil {
		span.RecordError(err)
		return apperrors.Validation("%v", err)
	}
	o := repository.ApplySetOptions(opts...)
	now := s.now().UTC()
	resolved := resolveFields(fields, now)

	if !o.Merge {
		row := documentModel{
			Path:       path,
			Collection: collection,
			DocID:      id,
			Fields:     datatypes.JSONMap(resolved),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err := s.conn(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to set document %s: %w", path, err)
		}
		return nil
	}

	err = s.WithTransaction(ctx, func(txCtx context.Context) error {
		db := s.conn(txCtx)
		var existing documentModel
		err := s.forUpdate(db).Where("path = ?", path).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return db.Create(&documentModel{
				Path:       path,
				Collection: collection,
				DocID:      id,
				Fields:     datatypes.JSONMap(resolved),
				CreatedAt:  now,
				UpdatedAt:  now,
			}).Error
		case err != nil:
			return err
		}
		merged := mergeFields(existing.Fields, resolved)
		return db.Model(&documentModel{}).Where("path = ?", path).Updates(map[string]any{
			"fields":     datatypes.JSONMap(merged),
			"updated_at": now,
		}).Error
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to merge document %s: %w", path, err)
	}
	return nil
}

// Add 在集合下新建文档
func (s *GormStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := repository.ValidateCollectionPath(collection); err != nil {
		return "", apperrors.Validation("%v", err)
	}
	id := NewDocumentID()
	if err := s.Set(ctx, repository.JoinPath(collection, id), fields); err != nil {
		return "", err
	}
	return id, nil
}

// Update 更新已有文档的字段
func (s *GormStore) Update(ctx context.Context, path string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "docstore.GormStore.Update",
		trace.WithAttributes(attribute.String("doc.path", path)))
	defer span.End()
	defer observe("update", time.Now())

	if _, _, err := repository.ParseDocumentPath(path); err != nil {
		span.RecordError(err)
		return apperrors.Validation("%v", err)
	}
	now := s.now().UTC()
	resolved := resolveFields(fields, now)

	err := s.WithTransaction(ctx, func(txCtx context.Context) error {
		db := s.conn(txCtx)
		var existing documentModel
		if err := s.forUpdate(db).Where("path = ?", path).Take(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound.WithDetail(path)
			}
			return err
		}
		merged := mergeFields(existing.Fields, resolved)
		return db.Model(&documentModel{}).Where("path = ?", path).Updates(map[string]any{
			"fields":     datatypes.JSONMap(merged),
			"updated_at": now,
		}).Error
	})
	if err != nil {
		span.RecordError(err)
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("failed to update document %s: %w", path, err)
	}
	return nil
}

// Delete 删除文档
func (s *GormStore) Delete(ctx context.Context, path string) error {
	ctx, span := tracer.Start(ctx, "docstore.GormStore.Delete",
		trace.WithAttributes(attribute.String("doc.path", path)))
	defer span.End()
	defer observe("delete", time.Now())

	if _, _, err := repository.ParseDocumentPath(path); err != nil {
		span.RecordError(err)
		return apperrors.Validation("%v", err)
	}

	if err := s.conn(ctx).Where("path = ?", path).Delete(&documentModel{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete document %s: %w", path, err)
	}
	return nil
}

// Query 查询集合
func (s *GormStore) Query(ctx context.Context, collection string, q repository.Query) ([]*repository.Document, error) {
	ctx, span := tracer.Start(ctx, "docstore.GormStore.Query",
		trace.WithAttributes(attribute.String("doc.collection", collection)))
	defer span.End()
	defer observe("query", time.Now())

	if err := repository.ValidateCollectionPath(collection); err != nil {
		span.RecordError(err)
		return nil, apperrors.Validation("%v", err)
	}

	var rows []documentModel
	if err := s.conn(ctx).Where("collection = ?", collection).Order("path ASC").Find(&rows).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}

	docs := make([]*repository.Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].toDocument())
	}
	result := ApplyQuery(docs, q)
	span.SetAttributes(
		attribute.Int("doc.scanned_count", len(rows)),
		attribute.Int("doc.result_count", len(result)),
	)
	return result, nil
}

// WithTransaction 在事务中执行操作，已在事务中时直接执行
func (s *GormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	return s.client.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, repository.TxKey{}, tx))
	}, s.txOptions()...)
}

// HealthCheck 健康检查
func (s *GormStore) HealthCheck(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}
