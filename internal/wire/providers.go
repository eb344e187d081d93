// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"z-novel-reader-api/internal/application/catalog"
	"z-novel-reader-api/internal/application/comment"
	"z-novel-reader-api/internal/application/favorite"
	"z-novel-reader-api/internal/application/reading"
	"z-novel-reader-api/internal/config"
	"z-novel-reader-api/internal/domain/repository"
	"z-novel-reader-api/internal/infrastructure/persistence/docstore"
	"z-novel-reader-api/internal/infrastructure/persistence/memcache"
	"z-novel-reader-api/internal/infrastructure/persistence/redis"
	"z-novel-reader-api/internal/interfaces/http/handler"
	"z-novel-reader-api/internal/interfaces/http/middleware"
	"z-novel-reader-api/pkg/logger"
)

// Store 文档存储后端，同时提供事务与健康检查
type Store interface {
	repository.DocumentStore
	repository.Transactor
	repository.HealthChecker
}

// Cache 本地阅读位置缓存后端
type Cache interface {
	repository.LocalCache
	repository.HealthChecker
}

// ProvideStore 按 database.driver 创建文档存储；memory 驱动仅用于本地开发
func ProvideStore(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn(ctx, "using in-memory document store, data is lost on restart")
		return docstore.NewMemoryStore(), func() {}, nil
	}

	client, err := docstore.NewClient(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	if cfg.Database.AutoMigrate {
		if err := client.Migrate(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to migrate document store: %w", err)
		}
	}
	return docstore.NewGormStore(client), cleanup, nil
}

// ProvideDocumentStore 文档存储接口
func ProvideDocumentStore(s Store) repository.DocumentStore {
	return s
}

// ProvideTransactor 事务接口
func ProvideTransactor(s Store) repository.Transactor {
	return s
}

// ProvideRedisClientOptional cache.driver 为 redis 时创建客户端，否则返回 nil
func ProvideRedisClientOptional(cfg *config.Config) (*redis.Client, func(), error) {
	if cfg.Cache.Driver != "redis" {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideCache 有 Redis 时使用 Redis，否则使用进程内缓存
func ProvideCache(cfg *config.Config, client *redis.Client) Cache {
	if client == nil {
		return memcache.New(cfg.Cache.TTL)
	}
	return redis.NewLocalCache(client, cfg.Cache.KeyPrefix, cfg.Cache.TTL)
}

// ProvideLocalCache 本地缓存接口
func ProvideLocalCache(c Cache) repository.LocalCache {
	return c
}

// ProvideRateLimiter 仅在 Redis 可用时限流
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideDetailJoiner 详情聚合器
func ProvideDetailJoiner(cfg *config.Config, store repository.DocumentStore) *reading.DetailJoiner {
	return reading.NewDetailJoiner(store, cfg.Reading.FanoutLimit)
}

// ProvideProgressLookup 收藏书架使用的进度查询
func ProvideProgressLookup(s *reading.ProgressService) favorite.ProgressLookup {
	return s
}

// ProvideFavoriteService 收藏服务
func ProvideFavoriteService(cfg *config.Config, store repository.DocumentStore, resolver *favorite.FirstChapterResolver, progress favorite.ProgressLookup) *favorite.Service {
	return favorite.NewService(store, resolver, progress, cfg.Reading.FanoutLimit)
}

// ProvideCatalogService 目录服务
func ProvideCatalogService(cfg *config.Config, store repository.DocumentStore, tx repository.Transactor) *catalog.Service {
	return catalog.NewService(store, tx, cfg.Reading.NewNovelsLimit)
}

// ProvideCommentService 评论服务
func ProvideCommentService(store repository.DocumentStore, tx repository.Transactor) *comment.Service {
	return comment.NewService(store, tx)
}

// ProvideHealthHandler 健康检查处理器
func ProvideHealthHandler(cfg *config.Config, store Store, cache Cache) *handler.HealthHandler {
	return handler.NewHealthHandler(store, cache, cfg.App.Version)
}

// ProvideProgressHandler 阅读进度处理器
func ProvideProgressHandler(cfg *config.Config, progress *reading.ProgressService) *handler.ProgressHandler {
	return handler.NewProgressHandler(progress, cfg.Reading.RecentLimit)
}
