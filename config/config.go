package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	Env            string
	MongoURI       string
	DatabaseName   string
	RedisURL       string
	CartCacheTTL   time.Duration
	JWTSecret      string
	AllowedOrigins string

	StorageBackend string // "r2" or "gcs"

	RazorpayKeyID     string
	RazorpayKeySecret string
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName:   getEnv("DATABASE_NAME", "farmpick"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		CartCacheTTL:   time.Hour * 24 * getEnvDuration("CART_CACHE_TTL_DAYS", 7),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),

		StorageBackend: getEnv("STORAGE_BACKEND", "r2"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defaultVal)
}
