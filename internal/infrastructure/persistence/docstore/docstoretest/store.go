// Package docstoretest 提供测试用的文档存储包装，可统计调用次数与注入故障
package docstoretest

import (
	"context"
	"sync"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/internal/infrastructure/persistence/docstore"
)

// Store 包装内存文档存储
type Store struct {
	*docstore.MemoryStore

	mu    sync.Mutex
	calls map[string]int

	// FailGet 返回非 nil 时 Get 直接失败
	FailGet func(path string) error
	// FailWrite 返回非 nil 时 Set/Add/Update/Delete 直接失败
	FailWrite func(path string) error
	// FailQuery 返回非 nil 时 Query 直接失败
	FailQuery func(collection string) error
}

// New 创建测试存储
func New(opts ...docstore.MemoryOption) *Store {
	return &Store{
		MemoryStore: docstore.NewMemoryStore(opts...),
		calls:       make(map[string]int),
	}
}

func (s *Store) record(op string) {
	s.mu.Lock()
	s.calls[op]++
	s.mu.Unlock()
}

// Calls 返回某类操作的调用次数
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// TotalCalls 返回全部操作的调用次数
func (s *Store) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Get 读取文档
func (s *Store) Get(ctx context.Context, path string) (*repository.Document, error) {
	s.record("get")
	if s.FailGet != nil {
		if err := s.FailGet(path); err != nil {
			return nil, err
		}
	}
	return s.MemoryStore.Get(ctx, path)
}

// Set 写入文档
func (s *Store) Set(ctx context.Context, path string, fields map[string]any, opts ...repository.SetOption) error {
	s.record("set")
	if err := s.failWrite(path); err != nil {
		return err
	}
	return s.MemoryStore.Set(ctx, path, fields, opts...)
}

// Add 新建文档
func (s *Store) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	s.record("add")
	if err := s.failWrite(collection); err != nil {
		return "", err
	}
	return s.MemoryStore.Add(ctx, collection, fields)
}

// Update 更新文档
func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	s.record("update")
	if err := s.failWrite(path); err != nil {
		return err
	}
	return s.MemoryStore.Update(ctx, path, fields)
}

// Delete 删除文档
func (s *Store) Delete(ctx context.Context, path string) error {
	s.record("delete")
	if err := s.failWrite(path); err != nil {
		return err
	}
	return s.MemoryStore.Delete(ctx, path)
}

// Query 查询集合
func (s *Store) Query(ctx context.Context, collection string, q repository.Query) ([]*repository.Document, error) {
	s.record("query")
	if s.FailQuery != nil {
		if err := s.FailQuery(collection); err != nil {
			return nil, err
		}
	}
	return s.MemoryStore.Query(ctx, collection, q)
}

func (s *Store) failWrite(path string) error {
	if s.FailWrite == nil {
		return nil
	}
	return s.FailWrite(path)
}
