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
	pkgcache "learnhub/pkg/cache"
	"learnhub/pkg/config"
	"learnhub/pkg/database"
	"learnhub/pkg/jwt"
	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/pkg/queue"
	"learnhub/pkg/s3"
	"learnhub/pkg/validation"
	courseHTTP "learnhub/services/course/internal/controller/http"
	"learnhub/services/course/internal/entity"
	"learnhub/services/course/internal/repo/cache"
	"learnhub/services/course/internal/repo/persistent"
	"learnhub/services/course/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "learnhub/services/course/docs" // Swagger docs
)

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
	log.EnableRollbar(cfg.RollbarToken, cfg.Environment, "course")

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

	redisClient, err := pkgcache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, tree cache disabled: %v", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, enrollment notifications disabled: %v", err)
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

	var redisCmd redis.Cmdable
	if a.redisClient != nil {
		redisCmd = a.redisClient
	}
	var publisher queue.Publisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	courseRepo := persistent.NewCourseRepository(a.db)
	contentRepo := persistent.NewContentRepository(a.db)

	courseUseCase := usecase.NewCourseUseCase(
		courseRepo,
		contentRepo,
		cache.NewTreeCache(redisCmd, a.log),
		access.NewChecker(a.db),
		a.s3Client,
		a.bus,
		a.log,
	)
	enrollmentUseCase := usecase.NewEnrollmentUseCase(
		courseRepo,
		contentRepo,
		persistent.NewEnrollmentRepository(a.db),
		persistent.NewLessonViewRepository(a.db),
		access.NewChecker(a.db),
		a.bus,
		publisher,
		a.log,
	)

	courseHandler := courseHTTP.NewCourseHandler(courseUseCase, a.log, a.cfg.UploadMaxSize)
	enrollmentHandler := courseHTTP.NewEnrollmentHandler(enrollmentUseCase, a.log)

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
			public.GET("/courses", courseHandler.ListCourses)
			public.GET("/courses/:id", courseHandler.GetCourse)
			public.GET("/courses/:id/tree", courseHandler.GetTree)
			public.GET("/lessons/:id", courseHandler.GetLesson)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.POST("/courses", courseHandler.CreateCourse)
			protected.PUT("/courses/:id", courseHandler.UpdateCourse)
			protected.DELETE("/courses/:id", courseHandler.DeleteCourse)
			protected.POST("/courses/:id/cover", middleware.BodyLimitMiddleware(a.cfg.UploadMaxSize+1<<16), courseHandler.UploadCover)

			protected.POST("/courses/:id/volumes", courseHandler.AddNode(entity.NodeVolume))
			protected.POST("/volumes/:id/chapters", courseHandler.AddNode(entity.NodeChapter))
			protected.POST("/chapters/:id/modules", courseHandler.AddNode(entity.NodeModule))
			protected.POST("/modules/:id/lessons", courseHandler.AddNode(entity.NodeLesson))
			protected.POST("/lessons/:id/activities", courseHandler.AddNode(entity.NodeActivity))

			protected.POST("/courses/:id/enroll", enrollmentHandler.Enroll)
			protected.DELETE("/courses/:id/enroll", enrollmentHandler.Unenroll)
			protected.GET("/courses/:id/enrollment", enrollmentHandler.Status)
			protected.GET("/courses/:id/progress", enrollmentHandler.Progress)
			protected.GET("/me/enrollments", enrollmentHandler.MyEnrollments)
			protected.POST("/lessons/:id/view", enrollmentHandler.MarkViewed)
			protected.DELETE("/lessons/:id/view", enrollmentHandler.UnmarkViewed)

			protected.GET("/dashboard", courseHandler.Dashboard)
			protected.GET("/dashboard/courses/:id", courseHandler.CourseDashboard)
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Course service starting on port %s", a.cfg.ServerPort)
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
	a.log.Info("Shutting down course service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	// drain pending activity before the database goes away
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

	a.log.Info("Course service exited")
	a.log.Close()
	return nil
}
