package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/pkg/access"
	"learnhub/pkg/activity"
	"learnhub/pkg/cache"
	"learnhub/pkg/config"
	"learnhub/pkg/database"
	"learnhub/pkg/jwt"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/queue"
	"learnhub/pkg/s3"
	"learnhub/pkg/validation"
	forumHTTP "learnhub/services/forum/internal/controller/http"
	"learnhub/services/forum/internal/repo/persistent"
	"learnhub/services/forum/internal/repo/webapi"
	"learnhub/services/forum/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "learnhub/services/forum/docs" // Swagger docs
)

const similarityTimeout = 10 * time.Second

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	bus         *activity.Bus
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()
	log.EnableRollbar(cfg.RollbarToken, cfg.Environment, "forum")

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
		log.Warn("Redis unavailable, similarity rate limiting disabled: %v", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, forum notifications disabled: %v", err)
		queueClient = nil
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
		queueClient: queueClient,
		s3Client:    s3Client,
		jwtService:  jwt.NewService(cfg.JWTSecret),
	}, nil
}

func (a *App) Run() error {
	validation.Init()

	a.bus = activity.NewBus(a.cfg.ActivityBufferSize, a.cfg.ActivityWorkers, a.log, activity.NewRecorder(a.db))

	var publisher queue.Publisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	questionRepo := persistent.NewQuestionRepository(a.db)
	answerRepo := persistent.NewAnswerRepository(a.db)
	lookup := persistent.NewLookupRepository(a.db)
	checker := access.NewChecker(a.db)

	questionUseCase := usecase.NewQuestionUseCase(questionRepo, lookup, checker, a.s3Client, a.bus, publisher, a.log)
	answerUseCase := usecase.NewAnswerUseCase(questionRepo, answerRepo, lookup, checker, a.bus, publisher, a.log)
	voteUseCase := usecase.NewVoteUseCase(questionRepo, answerRepo, persistent.NewVoteRepository(a.db), lookup, checker, a.bus, publisher, a.log)
	profileUseCase := usecase.NewProfileUseCase(lookup, questionRepo, answerRepo, persistent.NewReputationRepository(a.db))

	questionHandler := forumHTTP.NewQuestionHandler(questionUseCase, a.log, a.cfg.UploadMaxSize)
	answerHandler := forumHTTP.NewAnswerHandler(answerUseCase, voteUseCase, a.log)
	profileHandler := forumHTTP.NewProfileHandler(profileUseCase, a.log)
	similarityHandler := forumHTTP.NewSimilarityHandler(webapi.NewSimilarityClient(a.cfg.SimilarityAPIURL, similarityTimeout), a.log)

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
		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware(a.jwtService))
		{
			public.GET("/questions", questionHandler.ListQuestions)
			public.GET("/questions/:id", questionHandler.GetQuestion)
			public.GET("/questions/:id/answers", answerHandler.ListAnswers)
			public.GET("/users/:id/reputation", profileHandler.GetReputation)
			public.GET("/users/:id/profile", profileHandler.GetProfile)

			similarity := public.Group("/similarity")
			if a.redisClient != nil {
				similarity.Use(middleware.RateLimitMiddleware(a.redisClient, 30, time.Minute, a.log))
			}
			similarity.POST("", similarityHandler.Search)
			similarity.POST("/batch", similarityHandler.SearchBatch)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.POST("/questions", questionHandler.CreateQuestion)
			protected.PUT("/questions/:id", questionHandler.UpdateQuestion)
			protected.DELETE("/questions/:id", questionHandler.DeleteQuestion)
			protected.POST("/questions/:id/attachments", middleware.BodyLimitMiddleware(a.cfg.UploadMaxSize+1<<16), questionHandler.UploadAttachment)

			protected.POST("/questions/:id/answers", answerHandler.PostAnswer)
			protected.PUT("/answers/:id", answerHandler.UpdateAnswer)
			protected.DELETE("/answers/:id", answerHandler.DeleteAnswer)
			protected.POST("/answers/:id/accept", answerHandler.AcceptAnswer)

			protected.POST("/questions/:id/vote", answerHandler.VoteQuestion)
			protected.POST("/answers/:id/vote", answerHandler.VoteAnswer)
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Forum service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down forum service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if a.bus != nil {
		a.bus.Close()
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Forum service exited")
	a.log.Close()
	return nil
}
