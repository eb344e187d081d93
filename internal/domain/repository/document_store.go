// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"
)

// TxKey 事务上下文键类型
type TxKey struct{}

// Transactor 事务管理接口
type Transactor interface {
	// WithTransaction 在事务中执行操作
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Document 文档存储中的一条文档
type Document struct {
	ID         string         `json:"id"`
	Path       string         `json:"path"`
	Fields     map[string]any `json:"fields"`
	CreateTime time.Time      `json:"create_time"`
	UpdateTime time.Time      `json:"update_time"`
}

// Value 读取字段原始值
func (d *Document) Value(field string) any {
	if d == nil || d.Fields == nil {
		return nil
	}
	return d.Fields[field]
}

// FilterOp 查询过滤操作符
type FilterOp string

const (
	OpEqual         FilterOp = "=="
	OpNotEqual      FilterOp = "!="
	OpLess          FilterOp = "<"
	OpLessEqual     FilterOp = "<="
	OpGreater       FilterOp = ">"
	OpGreaterEqual  FilterOp = ">="
	OpIn            FilterOp = "in"
	OpArrayContains FilterOp = "array-contains"
)

// Filter 查询过滤条件
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Where 构造过滤条件
func Where(field string, op FilterOp, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Order 排序条件
type Order struct {
	Field string
	Desc  bool
}

// Asc 升序排序
func Asc(field string) Order { return Order{Field: field} }

// Desc 降序排序
func Desc(field string) Order { return Order{Field: field, Desc: true} }

// Query 集合查询参数
type Query struct {
	Where   []Filter
	OrderBy []Order
	// Limit 为 0 表示不限制
	Limit int
}

// SetOptions 写入选项
type SetOptions struct {
	Merge bool
}

// SetOption 写入选项函数
type SetOption func(*SetOptions)

// WithMerge 与已有字段合并而非整体覆盖
func WithMerge() SetOption {
	return func(o *SetOptions) { o.Merge = true }
}

// ApplySetOptions 汇总写入选项
func ApplySetOptions(opts ...SetOption) SetOptions {
	var o SetOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DocumentStore 文档存储接口
//
// 字段值为 timestamp.ServerTimestamp{} 时由存储在写入时解析为服务端时间。
type DocumentStore interface {
	// Get 读取文档，不存在时返回 nil, nil
	Get(ctx context.Context, path string) (*Document, error)

	// Set 写入文档，默认整体覆盖
	Set(ctx context.Context, path string, fields map[string]any, opts ...SetOption) error

	// Add 在集合下创建文档并返回新 ID
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Update 更新已有文档的字段，文档不存在时返回 NotFound
	Update(ctx context.Context, path string, fields map[string]any) error

	// Delete 删除文档，不存在时不报错
	Delete(ctx context.Context, path string) error

	// Query 查询集合下的文档
	Query(ctx context.Context, collection string, q Query) ([]*Document, error)
}

// LocalCache 本地键值缓存接口
type LocalCache interface {
	// Get 读取缓存，未命中时 ok 为 false
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set 写入缓存
	Set(ctx context.Context, key string, value string) error
}

// HealthChecker 健康检查接口
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
