package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RemoteAPIBaseURL points at the external course/enrollment service.
	// The service is optional: when it fails or is absent, every
	// operation falls back to the local store.
	RemoteAPIBaseURL string
	RemoteAPITimeout time.Duration

	StoreKeyPrefix string
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:          getEnv("API_PORT", "8080"),
		JWTKey:           []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:           time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		RemoteAPIBaseURL: getEnv("REMOTE_API_BASE_URL", "http://localhost:9090/api"),
		RemoteAPITimeout: time.Duration(getEnvAsInt("REMOTE_API_TIMEOUT_SECONDS", 5)) * time.Second,
		StoreKeyPrefix:   getEnv("STORE_KEY_PREFIX", "lms"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
