// Package main 为本地调试签发访问令牌
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"z-novel-reader-api/internal/config"
	"z-novel-reader-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "", "user id (required)")
	name := flag.String("name", "", "display name")
	avatar := flag.String("avatar", "", "avatar url")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to security.jwt.expiration")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.Security.JWT.Expiration
	}
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	jwtManager := utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
	token, err := jwtManager.GenerateToken(utils.Identity{
		UserID: *userID,
		Name:   *name,
		Avatar: *avatar,
	}, lifetime)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}
