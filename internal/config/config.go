package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	FeedTopic          string
}

type DatabaseConfig struct {
	Path string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/ragdebug.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			FeedTopic:          getEnv("FEED_TOPIC_NAME", "SESSION_FEED"),
		},
		Database: DatabaseConfig{
			Path: getEnv("RAGDEBUG_DB_PATH", defaultDatabasePath()),
		},
	}
}

// defaultDatabasePath places the store under the user's home directory so
// every project on the machine shares one history by default.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ragdebug.db"
	}
	return filepath.Join(home, ".ragdebug", "ragdebug.db")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
