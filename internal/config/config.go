package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	ChunkSize     int
	MaxRetries    int
	MaxConcurrent int
	LogLevel      slog.Level
}

// LoadConfig reads configuration from environment variables and an optional
// .env file, sets sensible defaults, and validates required fields.
// Real environment variables win over .env entries.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1")
	viper.SetDefault("DEEPSEEK_MODEL", "deepseek-chat")
	viper.SetDefault("REVIEW_TIMEOUT_MS", 30000)
	viper.SetDefault("CHUNK_SIZE", 3000)
	viper.SetDefault("MAX_RETRIES", 3)
	viper.SetDefault("MAX_CONCURRENT", 4)
	viper.SetDefault("LOG_LEVEL", "info")

	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			slog.Error("failed to read config file", "error", err)
		}
	}

	if viper.GetString("DEEPSEEK_API_KEY") == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY must be set")
	}

	// Parse the log level string into a slog.Level type.
	var logLevel slog.Level
	logLevelStr := strings.ToLower(viper.GetString("LOG_LEVEL"))
	switch logLevelStr {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", logLevelStr)
		logLevel = slog.LevelInfo
	}

	return &Config{
		APIKey:        viper.GetString("DEEPSEEK_API_KEY"),
		BaseURL:       viper.GetString("DEEPSEEK_BASE_URL"),
		Model:         viper.GetString("DEEPSEEK_MODEL"),
		Timeout:       time.Duration(viper.GetInt("REVIEW_TIMEOUT_MS")) * time.Millisecond,
		ChunkSize:     viper.GetInt("CHUNK_SIZE"),
		MaxRetries:    viper.GetInt("MAX_RETRIES"),
		MaxConcurrent: viper.GetInt("MAX_CONCURRENT"),
		LogLevel:      logLevel,
	}, nil
}
