package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/pkg/config"
	"learnhub/pkg/database"
	"learnhub/pkg/jwt"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/queue"
	notificationHTTP "learnhub/services/notification/internal/controller/http"
	"learnhub/services/notification/internal/repo/cache"
	"learnhub/services/notification/internal/repo/persistent"
	"learnhub/services/notification/internal/repo/webapi"
	"learnhub/services/notification/internal/scheduler"
	"learnhub/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "learnhub/services/notification/docs" // Swagger docs
)

const taskTimeout = 30 * time.Second

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	notificationRepo := persistent.NewNotificationRepository(db)
	mailer := webapi.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromAddress)
	if mailer == nil {
		log.Info("SENDGRID_API_KEY not set, email copies disabled")
	}

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, cache.NewRealtime(redisClient, log), mailer, log)

	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, log)
	streamHandler := notificationHTTP.NewStreamHandler(notificationUseCase, jwtService, log)

	archiver, err := scheduler.New(cfg.NotificationArchiveCron, notificationUseCase, log)
	if err != nil {
		log.Error("Failed to schedule archive job: %v", err)
		panic(err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if pending, err := queueClient.QueueLength(); err == nil {
			status["queue_length"] = pending
		}
		c.JSON(200, status)
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
		protected.POST("/notifications/:id/archive", notificationHandler.Archive)
	}
	// WebSocket endpoint - authenticates via the token query parameter
	api.GET("/notifications/ws", streamHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	log.Info("Starting notification queue consumer...")
	err = queueClient.ConsumeNotificationTasks(func(task queue.NotificationTask) error {
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		log.Info("[NOTIFICATION HANDLER] Received %s task for user %s", task.Type, task.UserID)
		_, err := notificationUseCase.HandleTask(ctx, task)
		return err
	})
	if err != nil {
		log.Error("Error starting notification queue consumer: %v", err)
		panic(err)
	}

	archiver.Start()

	go func() {
		log.Info("Notification service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notification service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	archiver.Stop()

	if err := queueClient.Close(); err != nil {
		log.Error("Error closing RabbitMQ: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if err := database.Close(db); err != nil {
		log.Error("Error closing database: %v", err)
	}

	log.Info("Notification service exited")
	log.Close()
}
