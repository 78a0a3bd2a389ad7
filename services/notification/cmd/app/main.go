package main

import (
	"learnhub/pkg/cache"
	"learnhub/pkg/config"
	"learnhub/pkg/database"
	"learnhub/pkg/logger"
	"learnhub/pkg/queue"
	notificationApp "learnhub/services/notification/internal/app"

	"github.com/redis/go-redis/v9"
)

// @title           Notification Service API
// @version         1.0
// @description     Inbox, unread badge and live stream of LearnHub notifications

// @host      localhost:8004
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()
	log.EnableRollbar(cfg.RollbarToken, cfg.Environment, "notification")

	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	if cfg.DBDriver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			panic(err)
		}
	}

	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(cfg); err != nil {
		log.Warn("Redis unavailable, live stream and badge cache disabled: %v", err)
	} else {
		redisClient = client
	}

	// the consumer is the reason this service exists
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}

	notificationApp.Run(cfg, log, db, redisClient, queueClient)
}
