/**
 * @description
 * Configuration loader for the Pasarin backend.
 * Responsible for reading environment variables, setting defaults, and performing strict validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 *
 * @notes
 * - Fails fast if critical variables (DATABASE_URL, JWT_SECRET) are missing.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Services ServicesConfig
	Uploads  UploadConfig
	Worker   WorkerConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development" or "production"
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// AuthConfig holds JWT signing settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// ServicesConfig holds external service endpoints and keys
type ServicesConfig struct {
	LocationIQKey  string
	LocationIQURL  string
	FreshDetectURL string
}

// UploadConfig holds local image storage settings
type UploadConfig struct {
	Dir string
}

// WorkerConfig holds background worker settings
type WorkerConfig struct {
	SweepSchedule string // cron spec for the auction expiry sweep
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (prod might inject env vars directly)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		},
		Services: ServicesConfig{
			LocationIQKey:  getEnv("LOCATIONIQ_API_KEY", ""),
			LocationIQURL:  getEnv("LOCATIONIQ_URL", "https://us1.locationiq.com/v1/reverse.php"),
			FreshDetectURL: getEnv("FRESHDETECT_URL", ""),
		},
		Uploads: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Worker: WorkerConfig{
			SweepSchedule: getEnv("SWEEP_SCHEDULE", "@every 1m"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" && cfg.Server.Env != "test" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Services.LocationIQKey == "" {
		fmt.Println("Warning: LOCATIONIQ_API_KEY is missing. Location lookups will fail.")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper to get env var as int
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
