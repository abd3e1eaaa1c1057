package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration. It is constructed once at
// startup and injected; nothing reads the environment after Load returns.
type Config struct {
	TelegramToken  string `validate:"required"`
	TelegramChatID int64  `validate:"required"`

	Port             int    `validate:"gt=0,lte=65535"`
	DefaultTimeframe string `validate:"required"`

	AccountBalance float64 `validate:"gte=0"`
	RiskPercent    float64 `validate:"gte=0,lte=100"`
	MinLotSize     float64 `validate:"gte=0"`
	MaxLotSize     float64 `validate:"gte=0"`

	DedupCooldown    time.Duration `validate:"gt=0"`
	HistoryRetention time.Duration `validate:"gt=0"`
	RequestTimeout   time.Duration `validate:"gt=0"`

	RelayRaw bool

	LogLevel string
	LogDir   string
}

// Load reads configuration from environment variables. Missing essential
// credentials are the one unrecoverable condition in the system, surfaced
// here as a startup error.
func Load() (*Config, error) {
	chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	if err != nil && os.Getenv("TELEGRAM_CHAT_ID") != "" {
		return nil, fmt.Errorf("parsing TELEGRAM_CHAT_ID: %w", err)
	}

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:   chatID,
		Port:             getEnvIntWithDefault("PORT", 8080),
		DefaultTimeframe: getEnvWithDefault("DEFAULT_TIMEFRAME", "1H"),
		AccountBalance:   getEnvFloatWithDefault("ACCOUNT_BALANCE", 10000),
		RiskPercent:      getEnvFloatWithDefault("RISK_PERCENT", 1.0),
		MinLotSize:       getEnvFloatWithDefault("MIN_LOT_SIZE", 0.01),
		MaxLotSize:       getEnvFloatWithDefault("MAX_LOT_SIZE", 100),
		DedupCooldown:    time.Duration(getEnvIntWithDefault("DEDUP_COOLDOWN_MIN", 5)) * time.Minute,
		HistoryRetention: time.Duration(getEnvIntWithDefault("HISTORY_RETENTION_HOURS", 24)) * time.Hour,
		RequestTimeout:   time.Duration(getEnvIntWithDefault("REQUEST_TIMEOUT", 10)) * time.Second,
		RelayRaw:         getEnvBoolWithDefault("RELAY_RAW", true),
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:           getEnvWithDefault("LOG_DIR", "logs"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
