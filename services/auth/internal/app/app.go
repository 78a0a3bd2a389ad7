package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/pkg/access"
	"learnhub/pkg/cache"
	"learnhub/pkg/config"
	"learnhub/pkg/database"
	"learnhub/pkg/jwt"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/s3"
	"learnhub/pkg/validation"
	authHTTP "learnhub/services/auth/internal/controller/http"
	"learnhub/services/auth/internal/repo/persistent"
	"learnhub/services/auth/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "learnhub/services/auth/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()
	log.EnableRollbar(cfg.RollbarToken, cfg.Environment, "auth")

	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		// only used for login rate limiting
		log.Warn("Redis unavailable, rate limiting disabled: %v", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

func (a *App) Run() error {
	validation.Init()

	userRepo := persistent.NewUserRepository(a.db)
	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		access.NewChecker(a.db),
		a.jwtService,
		a.s3Client,
		a.log,
	)
	authHandler := authHTTP.NewAuthHandler(authUseCase, a.log, a.cfg.UploadMaxSize)

	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		public := api.Group("/auth")
		if a.redisClient != nil {
			public.Use(middleware.RateLimitMiddleware(a.redisClient, 20, time.Minute, a.log))
		}
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.GET("/user/check-onboarding", authHandler.CheckOnboarding)
			protected.POST("/user/onboarding", authHandler.CompleteOnboarding)
			protected.POST("/user/avatar", middleware.BodyLimitMiddleware(a.cfg.UploadMaxSize+1<<16), authHandler.UploadAvatar)
			protected.GET("/users/:id/roles", authHandler.GetRoles)
			protected.POST("/users/:id/roles", authHandler.AssignRole)
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Auth service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down auth service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Auth service exited")
	a.log.Close()
	return nil
}
