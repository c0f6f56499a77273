package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                 = "8080"
	DefaultAccessTokenExpiryMin = 60
	DefaultMigrationsPath       = "db/migrations"
	DefaultLogLevel             = "info"
	DefaultNotifyExchange       = "backoffice.notifications"
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	MigrationsPath     string
	AccessTokenSecret  string
	PendingTokenSecret string
	AccessExpiryMin    int
	AmqpURL            string
	NotifyExchange     string
	LogLevel           string
}

// Load reads config/.env.dev or config/.env.prod depending on ENV, then lets
// real environment variables override file values.
func Load() *Config {
	envFile := "config/.env.dev"
	if getEnv("ENV", "development") == "production" {
		envFile = "config/.env.prod"
	}
	// Missing file is fine; everything can come from the environment.
	_ = godotenv.Load(envFile)

	return &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", DefaultPort),
		DBURL:              mustGetEnv("DB_URL"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", DefaultMigrationsPath),
		AccessTokenSecret:  mustGetEnv("ACCESS_TOKEN_SECRET"),
		PendingTokenSecret: mustGetEnv("PENDING_TOKEN_SECRET"),
		AccessExpiryMin:    getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		AmqpURL:            getEnv("AMQP_URL", ""),
		NotifyExchange:     getEnv("NOTIFY_EXCHANGE", DefaultNotifyExchange),
		LogLevel:           getEnv("LOG_LEVEL", DefaultLogLevel),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)

	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}

	return val
}
