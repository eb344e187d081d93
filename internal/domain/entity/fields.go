// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

// fieldString 读取字符串字段，非字符串时返回空串
func fieldString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// fieldInt 读取整数字段，兼容 JSON 解码后的 float64
func fieldInt(fields map[string]any, key string) int64 {
	switch n := fields[key].(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	}
	return 0
}

// fieldFloat 读取浮点字段
func fieldFloat(fields map[string]any, key string) float64 {
	switch n := fields[key].(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

// fieldStrings 读取字符串数组字段
func fieldStrings(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// fieldTime 读取时间字段并规范化
func fieldTime(fields map[string]any, key string) *time.Time {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return nil
	}
	return timestamp.Normalize(raw)
}

// numberKey 把字符串或数字形式的序号统一为可比较的数值，无法解析时返回 0
func numberKey(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

// docFields 返回文档字段，文档为空时返回空表
func docFields(doc *repository.Document) map[string]any {
	if doc == nil || doc.Fields == nil {
		return map[string]any{}
	}
	return doc.Fields
}
