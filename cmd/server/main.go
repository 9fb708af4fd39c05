package main

import (
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"medshare.app/backend/internal/config"
	"medshare.app/backend/internal/entity"
	"medshare.app/backend/internal/server"
	"medshare.app/backend/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis is optional; without it notifications are DB-only
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	srv := server.NewServer(cfg, db, redisClient)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Donation{},
		&entity.Request{},
		&entity.Notification{},
	)
}
