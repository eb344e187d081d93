// Package docstore 提供基于 GORM 与内存的文档存储实现
package docstore

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/pkg/timestamp"
)

// ApplyQuery 对同一集合的文档执行过滤、排序与截断
//
// 语义与托管文档库一致：过滤或排序字段缺失的文档不会出现在结果中，
// 排序字段相同的文档按路径升序排列。
func ApplyQuery(docs []*repository.Document, q repository.Query) []*repository.Document {
	out := make([]*repository.Document, 0, len(docs))
	for _, doc := range docs {
		if matchesAll(doc, q) {
			out = append(out, doc)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for _, o := range q.OrderBy {
			c := compareForSort(a.Fields[o.Field], b.Fields[o.Field])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.Path < b.Path
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func matchesAll(doc *repository.Document, q repository.Query) bool {
	for _, o := range q.OrderBy {
		if _, ok := doc.Fields[o.Field]; !ok {
			return false
		}
	}
	for _, f := range q.Where {
		if !matches(doc, f) {
			return false
		}
	}
	return true
}

func matches(doc *repository.Document, f repository.Filter) bool {
	v, ok := doc.Fields[f.Field]
	if !ok {
		return false
	}
	switch f.Op {
	case repository.OpEqual:
		return equalValues(v, f.Value)
	case repository.OpNotEqual:
		return !equalValues(v, f.Value)
	case repository.OpLess, repository.OpLessEqual, repository.OpGreater, repository.OpGreaterEqual:
		c, ok := compareValues(v, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case repository.OpLess:
			return c < 0
		case repository.OpLessEqual:
			return c <= 0
		case repository.OpGreater:
			return c > 0
		default:
			return c >= 0
		}
	case repository.OpIn:
		for _, candidate := range toSlice(f.Value) {
			if equalValues(v, candidate) {
				return true
			}
		}
		return false
	case repository.OpArrayContains:
		for _, item := range toSlice(v) {
			if equalValues(item, f.Value) {
				return true
			}
		}
		return false
	}
	return false
}

func equalValues(a, b any) bool {
	c, ok := compareValues(a, b)
	return ok && c == 0
}

// compareValues 比较两个同类标量，类型不可比较时 ok 为 false
func compareValues(a, b any) (int, bool) {
	if timestamp.IsTimestampLike(a) || timestamp.IsTimestampLike(b) {
		ta, okA := timestamp.Parse(a)
		tb, okB := timestamp.Parse(b)
		if !okA || !okB {
			return 0, false
		}
		return compareTime(ta, tb), true
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb), true
		}
		return 0, false
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0, true
			case !ba:
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}

// compareForSort 排序比较；不同类型按类型序排列以保证结果确定
func compareForSort(a, b any) int {
	if c, ok := compareValues(a, b); ok {
		return c
	}
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func typeRank(v any) int {
	switch {
	case v == nil:
		return 0
	case timestamp.IsTimestampLike(v):
		return 3
	}
	switch v.(type) {
	case bool:
		return 1
	case string:
		return 4
	}
	if _, ok := toFloat(v); ok {
		return 2
	}
	return 5
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []int:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []int64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	}
	return nil
}
