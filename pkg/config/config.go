package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	Port               string
	FrontendURL        string
	JWTSecret          string
	SessionTTL         time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GmailScope         string
	DatabaseDSN        string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	DemoMode           bool
	MaxResults         int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	sessionTTL := 24 * time.Hour
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			sessionTTL = parsed
		}
	}

	redisDB := 0
	if db := os.Getenv("REDIS_DB"); db != "" {
		if parsed, err := strconv.Atoi(db); err == nil {
			redisDB = parsed
		}
	}

	maxResults := 50
	if mr := os.Getenv("MAX_RESULTS"); mr != "" {
		if parsed, err := strconv.Atoi(mr); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}

	return &Config{
		Env:                getEnv("ENV", "production"),
		Port:               getEnv("PORT", "8080"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		SessionTTL:         sessionTTL,
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/auth/callback"),
		GmailScope:         getEnv("GMAIL_SCOPES", "https://www.googleapis.com/auth/gmail.readonly"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=jobtracker port=5432 sslmode=disable"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            redisDB,
		DemoMode:           getEnv("DEMO_MODE", "") == "true",
		MaxResults:         maxResults,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
