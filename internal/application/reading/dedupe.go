package reading

import (
	"context"
	"sort"

	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/pkg/logger"
)

// DefaultRecentLimit 最近阅读书架的默认条数
const DefaultRecentLimit = 5

// Dedupe 每本小说只保留最近更新的一条进度，按更新时间倒序并截断到 limit 条
//
// 更新时间相同时 ID 较大者胜出；结果中同时间的记录按 ID 升序。缺少小说、卷或章节 ID 的记录被跳过。
func Dedupe(records []*entity.ReadingProgress, limit int) []*entity.ReadingProgress {
	if limit < 0 {
		limit = 0
	}

	latest := make(map[string]*entity.ReadingProgress)
	for _, r := range records {
		if !r.Complete() {
			if r != nil {
				logger.Debug(context.Background(), "skipping incomplete reading progress",
					"id", r.ID,
					"novel_id", r.NovelID,
				)
			}
			continue
		}
		cur, ok := latest[r.NovelID]
		if !ok || newer(r, cur) {
			latest[r.NovelID] = r
		}
	}

	out := make([]*entity.ReadingProgress, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].UpdatedTime(), out[j].UpdatedTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// newer 判断 a 是否应替换同一小说下的 b
func newer(a, b *entity.ReadingProgress) bool {
	ta, tb := a.UpdatedTime(), b.UpdatedTime()
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a.ID > b.ID
}
