package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("SERVER_PORT", "8080")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_PORT", "5432")
	os.Setenv("DB_USER", "testuser")
	os.Setenv("DB_PASSWORD", "testpass")
	os.Setenv("DB_NAME", "testdb")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("SIMILARITY_API_URL", "http://similarity:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.NotNil(t, cfg)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "http://similarity:9000", cfg.SimilarityAPIURL)

	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("DB_HOST")
	os.Unsetenv("DB_PORT")
	os.Unsetenv("DB_USER")
	os.Unsetenv("DB_PASSWORD")
	os.Unsetenv("DB_NAME")
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("REDIS_PORT")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("SIMILARITY_API_URL")
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("SIMILARITY_API_URL")
	os.Unsetenv("UPLOAD_MAX_SIZE")
	os.Unsetenv("NEXT_PUBLIC_UPLOAD_MAX_SIZE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:8000", cfg.SimilarityAPIURL)
	assert.Equal(t, DefaultUploadMaxSize, cfg.UploadMaxSize)
	assert.Equal(t, "0 3 * * *", cfg.NotificationArchiveCron)
}

func TestLoadConfig_UploadMaxSizeAlias(t *testing.T) {
	os.Unsetenv("UPLOAD_MAX_SIZE")
	os.Setenv("NEXT_PUBLIC_UPLOAD_MAX_SIZE", "2048")
	defer os.Unsetenv("NEXT_PUBLIC_UPLOAD_MAX_SIZE")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.UploadMaxSize)

	os.Setenv("UPLOAD_MAX_SIZE", "4096")
	defer os.Unsetenv("UPLOAD_MAX_SIZE")

	cfg, err = Load()
	assert.NoError(t, err)
	assert.Equal(t, int64(4096), cfg.UploadMaxSize)
}

func TestParseUploadMaxSize(t *testing.T) {
	assert.Equal(t, DefaultUploadMaxSize, ParseUploadMaxSize(""))
	assert.Equal(t, DefaultUploadMaxSize, ParseUploadMaxSize("abc"))
	assert.Equal(t, DefaultUploadMaxSize, ParseUploadMaxSize("-5"))
	assert.Equal(t, int64(5000000), ParseUploadMaxSize("5000000"))
}
