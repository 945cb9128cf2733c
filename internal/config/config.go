package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds all runtime configuration for the pricing service.
type AppConfig struct {
	HTTPAddr string

	SpannerDB string

	RedisAddr string
	RedisPass string
	RedisDB   int

	// ConversionDefaultsPath points at the YAML file seeding conversion
	// settings when the store holds none. Empty disables the file.
	ConversionDefaultsPath string
}

// Load reads configuration from the environment, consulting a .env file if
// one is present.
func Load() AppConfig {
	_ = godotenv.Load()

	return AppConfig{
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		SpannerDB:              getEnv("SPANNER_DB", "projects/test-project/instances/dev-instance/databases/pricing-db"),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPass:              getEnv("REDIS_PASS", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		ConversionDefaultsPath: getEnv("CONVERSION_DEFAULTS_PATH", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
