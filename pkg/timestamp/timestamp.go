// Package timestamp 将文档存储中各种形态的时间值统一为 time.Time
package timestamp

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"z-novel-reader-api/pkg/logger"
)

// Timestamp 文档存储原生时间值（秒 + 纳秒）
type Timestamp struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int32 `json:"_nanoseconds"`
}

// FromTime 由 time.Time 构造 Timestamp
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Seconds:     t.Unix(),
		Nanoseconds: int32(t.Nanosecond()),
	}
}

// AsTime 转换为 UTC 时间
func (t Timestamp) AsTime() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanoseconds)).UTC()
}

// ServerTimestamp 服务端时间占位符，由存储在写入时解析
type ServerTimestamp struct{}

// asTimer 暴露 AsTime 的时间值（如 protobuf Timestamp）
type asTimer interface {
	AsTime() time.Time
}

// Now 当前时间来源，测试可替换
var Now = time.Now

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Normalize 将任意时间表示转换为 UTC 时间，无法识别时返回 nil
func Normalize(raw any) *time.Time {
	if raw == nil {
		return nil
	}
	t, ok := Parse(raw)
	if !ok {
		logger.Debug(context.Background(), "unrecognized timestamp value",
			"type", fmt.Sprintf("%T", raw),
		)
		return nil
	}
	return &t
}

// Parse 尝试解析时间值，不记录日志
func Parse(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case ServerTimestamp, *ServerTimestamp:
		return Now().UTC(), true
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.UTC(), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return v.UTC(), true
	case Timestamp:
		return v.AsTime(), true
	case *Timestamp:
		if v == nil {
			return time.Time{}, false
		}
		return v.AsTime(), true
	case asTimer:
		if isNilPointer(v) {
			return time.Time{}, false
		}
		return v.AsTime().UTC(), true
	case map[string]any:
		return parseMap(v)
	case string:
		return parseString(v)
	default:
		return time.Time{}, false
	}
}

// IsTimestampLike 判断值是否为非字符串形式的时间值
func IsTimestampLike(raw any) bool {
	switch v := raw.(type) {
	case asTimer:
		return !isNilPointer(v)
	case ServerTimestamp, *ServerTimestamp, time.Time, *time.Time, Timestamp, *Timestamp:
		return true
	case map[string]any:
		_, ok := parseMap(v)
		return ok
	default:
		return false
	}
}

// isNilPointer 接口中包着 nil 指针时调用方法会 panic
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func parseMap(m map[string]any) (time.Time, bool) {
	secKey, nanoKey := "seconds", "nanoseconds"
	if _, ok := m[secKey]; !ok {
		secKey, nanoKey = "_seconds", "_nanoseconds"
	}
	secRaw, ok := m[secKey]
	if !ok {
		return time.Time{}, false
	}
	sec, ok := toInt64(secRaw)
	if !ok {
		return time.Time{}, false
	}
	var nanos int64
	if nanoRaw, ok := m[nanoKey]; ok {
		if n, ok := toInt64(nanoRaw); ok {
			nanos = n
		}
	}
	return time.Unix(sec, nanos).UTC(), true
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

// NormalizeFields 递归复制字段表，并将其中的时间值替换为 time.Time
func NormalizeFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	if IsTimestampLike(v) {
		if t, ok := Parse(v); ok {
			return t
		}
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		return NormalizeFields(val)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = normalizeValue(val[i])
		}
		return out
	default:
		return v
	}
}

// Value 返回时间值，nil 视为零值
func Value(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// FromMillis 由毫秒时间戳构造时间
func FromMillis(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
