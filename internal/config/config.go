package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	AllowOrigins  string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string
	UploadDir     string
	MaxUploadMB   int64
	SessionDays   int
	ReqTimeoutSec int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		AllowOrigins:  getenv("ALLOW_ORIGINS", "*"),
		DBHost:        getenv("DB_HOST", ""),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", ""),
		DBName:        getenv("DB_NAME", "plantid"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		SQLitePath:    getenv("SQLITE_PATH", "plantid.db"),
		GeminiKey:     getenv("GEMINI_API_KEY", ""),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		MaxUploadMB:   int64(atoi("MAX_UPLOAD_MB", 10)),
		SessionDays:   atoi("SESSION_DAYS", 7),
		ReqTimeoutSec: atoi("REQUEST_TIMEOUT_SECONDS", 30),
	}
}
