package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const DefaultUploadMaxSize int64 = 1048576

type Config struct {
	// Server
	ServerPort string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// JWT
	JWTSecret string

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3BucketName       string
	S3UseSSL           string

	// Uploads
	UploadMaxSize int64

	// Semantic search service used by the forum
	SimilarityAPIURL string

	// Activity bus
	ActivityBufferSize int
	ActivityWorkers    int

	// Notifications
	NotificationArchiveCron string
	SendGridAPIKey          string
	MailFromName            string
	MailFromAddress         string

	// Error reporting
	RollbarToken string
	Environment  string

	// Services URLs
	AuthServiceURL         string
	CourseServiceURL       string
	ForumServiceURL        string
	NotificationServiceURL string
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "learnhub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "learnhub.db"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "learnhub-uploads"),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),

		UploadMaxSize: ParseUploadMaxSize(getEnv("UPLOAD_MAX_SIZE", os.Getenv("NEXT_PUBLIC_UPLOAD_MAX_SIZE"))),

		SimilarityAPIURL: getEnv("SIMILARITY_API_URL", "http://localhost:8000"),

		ActivityBufferSize: getEnvInt("ACTIVITY_BUFFER_SIZE", 1024),
		ActivityWorkers:    getEnvInt("ACTIVITY_WORKERS", 2),

		NotificationArchiveCron: getEnv("NOTIFICATION_ARCHIVE_CRON", "0 3 * * *"),
		SendGridAPIKey:          getEnv("SENDGRID_API_KEY", ""),
		MailFromName:            getEnv("MAIL_FROM_NAME", "LearnHub"),
		MailFromAddress:         getEnv("MAIL_FROM_ADDRESS", "noreply@localhost"),

		RollbarToken: getEnv("ROLLBAR_TOKEN", ""),
		Environment:  getEnv("ENV", "development"),

		AuthServiceURL:         getEnv("AUTH_SERVICE_URL", "http://localhost:8001"),
		CourseServiceURL:       getEnv("COURSE_SERVICE_URL", "http://localhost:8002"),
		ForumServiceURL:        getEnv("FORUM_SERVICE_URL", "http://localhost:8003"),
		NotificationServiceURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8004"),
	}

	return config, nil
}

// ParseUploadMaxSize returns the default cap for empty, non-numeric or
// non-positive input.
func ParseUploadMaxSize(raw string) int64 {
	if raw == "" {
		return DefaultUploadMaxSize
	}
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || size <= 0 {
		return DefaultUploadMaxSize
	}
	return size
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}
