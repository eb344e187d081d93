package docstore

import (
	"time"

	"z-novel-reader-api/pkg/timestamp"
)

// resolveFields 深拷贝字段并把服务端时间占位符替换为写入时刻
func resolveFields(fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = resolveValue(v, now)
	}
	return out
}

func resolveValue(v any, now time.Time) any {
	switch val := v.(type) {
	case timestamp.ServerTimestamp, *timestamp.ServerTimestamp:
		return timestamp.FromTime(now)
	case time.Time:
		return timestamp.FromTime(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return timestamp.FromTime(*val)
	case map[string]any:
		return resolveFields(val, now)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = resolveValue(val[i], now)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// cloneFields 深拷贝字段表
func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// mergeFields 顶层字段合并，updates 覆盖 base
func mergeFields(base, updates map[string]any) map[string]any {
	out := cloneFields(base)
	for k, v := range updates {
		out[k] = cloneValue(v)
	}
	return out
}
