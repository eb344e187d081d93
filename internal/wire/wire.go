//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"z-novel-reader-api/internal/application/catalog"
	"z-novel-reader-api/internal/application/favorite"
	"z-novel-reader-api/internal/application/reading"
	"z-novel-reader-api/internal/config"
	"z-novel-reader-api/internal/interfaces/http/handler"
	"z-novel-reader-api/internal/interfaces/http/router"
)

// Bootstrap 初始化任务所需的依赖
type Bootstrap struct {
	Store   Store
	Catalog *catalog.Service
}

// StoreSet 文档存储提供者集合
var StoreSet = wire.NewSet(
	ProvideStore,
	ProvideDocumentStore,
	ProvideTransactor,
)

// CacheSet 缓存与限流提供者集合
var CacheSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideCache,
	ProvideLocalCache,
	ProvideRateLimiter,
)

// ServiceSet 应用服务提供者集合
var ServiceSet = wire.NewSet(
	ProvideDetailJoiner,
	reading.NewProgressService,
	reading.NewBookmarkService,
	ProvideProgressLookup,
	favorite.NewFirstChapterResolver,
	ProvideFavoriteService,
	ProvideCatalogService,
	ProvideCommentService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewNovelHandler,
	ProvideProgressHandler,
	handler.NewBookmarkHandler,
	handler.NewFavoriteHandler,
	handler.NewCommentHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StoreSet,
		CacheSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeBootstrap 仅初始化文档存储与目录服务（用于 bootstrap）
func InitializeBootstrap(ctx context.Context, cfg *config.Config) (*Bootstrap, func(), error) {
	wire.Build(
		StoreSet,
		ProvideCatalogService,
		wire.Struct(new(Bootstrap), "*"),
	)
	return nil, nil, nil
}
