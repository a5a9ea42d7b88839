package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageS3       = "s3"
)

type Config struct {
	Port        string
	LogLevel    string
	FrontendURL string
	// Durable storage
	StorageDriver string
	StoragePrefix string
	DBUrl         string
	RedisURL      string
	RedisPassword string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	// Client identity token
	ClientTokenSecret   string
	ClientTokenTTLHours int
	CookieSecure        bool
	CSRFEnabled         bool
	// Rate limiting for register/login
	AuthRatePerMinute int
	AuthRateBurst     int
	// Error reporting
	SentryDSN string
}

func LoadConfig() (*Config, error) {
	// .env only matters locally; missing file is fine
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		StoragePrefix: getEnv("STORAGE_PREFIX", "koryob"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3AccessKey:   getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),

		ClientTokenSecret:   getEnv("CLIENT_TOKEN_SECRET", ""),
		ClientTokenTTLHours: getEnvInt("CLIENT_TOKEN_TTL_HOURS", 24*30),
		CookieSecure:        getEnvBool("COOKIE_SECURE", false),
		CSRFEnabled:         getEnvBool("CSRF_ENABLED", false),

		AuthRatePerMinute: getEnvInt("AUTH_RATE_PER_MINUTE", 10),
		AuthRateBurst:     getEnvInt("AUTH_RATE_BURST", 10),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	switch cfg.StorageDriver {
	case StorageMemory, StorageRedis, StoragePostgres, StorageS3:
	default:
		log.Printf("WARNING: unknown STORAGE_DRIVER %q, falling back to memory", cfg.StorageDriver)
		cfg.StorageDriver = StorageMemory
	}

	if cfg.StorageDriver == StoragePostgres && cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.StorageDriver == StorageRedis && cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL is missing. Application may fail to connect.")
	}
	if cfg.ClientTokenSecret == "" {
		log.Println("WARNING: CLIENT_TOKEN_SECRET not configured. Using an insecure development secret.")
		cfg.ClientTokenSecret = "koryob-dev-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
