package docstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-novel-reader-api/internal/domain/repository"
	apperrors "z-novel-reader-api/pkg/errors"
)

type memoryDoc struct {
	collection string
	id         string
	fields     map[string]any
	createdAt  time.Time
	updatedAt  time.Time
}

type memoryTxKey struct{}

// MemoryStore 进程内文档存储，用于开发环境与测试
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*memoryDoc
	txMu sync.Mutex
	now  func() time.Time
}

// MemoryOption 内存存储选项
type MemoryOption func(*MemoryStore)

// WithMemoryClock 指定服务端时间来源
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore 创建内存文档存储
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		docs: make(map[string]*memoryDoc),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get 读取文档
func (s *MemoryStore) Get(ctx context.Context, path string) (*repository.Document, error) {
	_, span := tracer.Start(ctx, "docstore.MemoryStore.Get",
		trace.WithAttributes(attribute.String("doc.path", path)))
	defer span.End()

	if _, _, err := repository.ParseDocumentPath(path); err != nil {
		span.RecordError(err)
		return nil, apperrors.Validation("%v", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	return d.toDocument(path), nil
}

// Set 写入文档
func (s *MemoryStore) Set(ctx context.Context, path string, fields map[string]any, opts ...repository.SetOption) error {
	_, span := tracer.Start(ctx, "docstore.MemoryStore.Set",
		trace.WithAttributes(attribute.String("doc.path", path)))
	defer span.End()

	collection, id, err := repository.ParseDocumentPath(path)
	if err != nil {
		span.RecordError(err)
		return apperrors.Validation("%v", err)
	}
	o := repository.ApplySetOptions(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	resolved := resolveFields(fields, now)
	if existing, ok := s.docs[path]; ok {
		if o.Merge {
			resolved = mergeFields(existing.fields, resolved)
		}
		existing.fields = resolved
		existing.updatedAt = now
		return nil
	}
	s.docs[path] = &memoryDoc{
		collection: collection,
		id:         id,
		fields:     resolved,
		createdAt:  now,
		updatedAt:  now,
	}
	return nil
}

// Add 在集合下新建文档
func (s *MemoryStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := repository.ValidateCollectionPath(collection); err != nil {
		return "", apperrors.Validation("%v", err)
	}
	id := NewDocumentID()
	if err := s.Set(ctx, repository.JoinPath(collection, id), fields); err != nil {
		return "", err
	}
	return id, nil
}

// Update 更新已有文档
func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	_, span := tracer.Start(ctx, "docstore.MemoryStore.Update",
		trace.WithAttributes(attribute.String("doc.path", path)))
	defer span.End()

	if _, _, err := repository.ParseDocumentPath(path); err != nil {
		span.RecordError(err)
		return apperrors.Validation("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[path]
	if !ok {
		err := apperrors.ErrNotFound.WithDetail(path)
		span.RecordError(err)
		return err
	}
	now := s.now().UTC()
	existing.fields = mergeFields(existing.fields, resolveFields(fields, now))
	existing.updatedAt = now
	return nil
}

// Delete 删除文档
func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	_, span := tracer.Start(ctx, "docstore.MemoryStore.Delete",
		trace.WithAttributes(attribute.String("doc.path", path)))
	defer span.End()

	if _, _, err := repository.ParseDocumentPath(path); err != nil {
		span.RecordError(err)
		return apperrors.Validation("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, path)
	return nil
}

// Query 查询集合
func (s *MemoryStore) Query(ctx context.Context, collection string, q repository.Query) ([]*repository.Document, error) {
	_, span := tracer.Start(ctx, "docstore.MemoryStore.Query",
		trace.WithAttributes(attribute.String("doc.collection", collection)))
	defer span.End()

	if err := repository.ValidateCollectionPath(collection); err != nil {
		span.RecordError(err)
		return nil, apperrors.Validation("%v", err)
	}

	s.mu.RLock()
	docs := make([]*repository.Document, 0)
	for path, d := range s.docs {
		if d.collection == collection {
			docs = append(docs, d.toDocument(path))
		}
	}
	s.mu.RUnlock()

	result := ApplyQuery(docs, q)
	span.SetAttributes(attribute.Int("doc.result_count", len(result)))
	return result, nil
}

// WithTransaction 串行执行事务函数；内存实现不提供回滚
func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, memoryTxKey{}, true))
}

// HealthCheck 健康检查
func (s *MemoryStore) HealthCheck(context.Context) error {
	return nil
}

// Len 返回文档数量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (d *memoryDoc) toDocument(path string) *repository.Document {
	return &repository.Document{
		ID:         d.id,
		Path:       path,
		Fields:     cloneFields(d.fields),
		CreateTime: d.createdAt,
		UpdateTime: d.updatedAt,
	}
}

// NewDocumentID 生成 20 位文档 ID
func NewDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}
