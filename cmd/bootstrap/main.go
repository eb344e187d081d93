// Package main 初始化文档表并写入题材列表
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"z-novel-reader-api/internal/config"
	"z-novel-reader-api/internal/domain/entity"
	"z-novel-reader-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting reader bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Database.Driver == "memory" {
		log.Fatalf("bootstrap needs a persistent database driver, got %q", cfg.Database.Driver)
	}
	// 迁移始终执行，与 auto_migrate 配置无关
	cfg.Database.AutoMigrate = true

	ctx := context.Background()

	app, cleanup, err := wire.InitializeBootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize document store: %v", err)
	}
	defer cleanup()

	if err := app.Store.HealthCheck(ctx); err != nil {
		log.Fatalf("document store is not healthy: %v", err)
	}
	fmt.Printf("Document table migrated on %s.\n", cfg.Database.Driver)

	genres := entity.DefaultGenres
	if raw := os.Getenv("BOOTSTRAP_GENRES"); raw != "" {
		genres = nil
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
	}

	if err := app.Catalog.SeedGenres(ctx, genres); err != nil {
		log.Fatalf("failed to seed genres: %v", err)
	}
	fmt.Printf("Seeded %d genres.\n", len(genres))

	fmt.Println("Bootstrap completed successfully.")
}
