package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort       string
	DatabasePath  string
	JWTSecret     string
	AdminPassword string
	TokenExpires  time.Duration
	UploadDir     string
	CORSOrigin    string
	MaxFileSize   int64
	Env           string
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads environment variables and returns a populated Config.
//
// JWTSecret and AdminPassword may be empty here; the auth layer reports a
// server configuration error when they are needed but unset.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "./database.sqlite"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		TokenExpires:  getEnvDuration("JWT_TTL_HOURS", 24) * time.Hour,
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),
		MaxFileSize:   getEnvInt64("MAX_FILE_SIZE", 5<<20),
		Env:           getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return time.Duration(parsed)
		}
	}
	return time.Duration(fallback)
}
