package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"homework_status_bot/internal/infra/practicum"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

// ErrConfiguration marks a fatal startup configuration problem.
var ErrConfiguration = fmt.Errorf("invalid configuration")

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken     string
	TelegramToken      string
	ChatID             int64
	Endpoint           string
	PollInterval       time.Duration
	RetryWindow        time.Duration
	HTTPTimeout        time.Duration
	TelegramRatePerSec int
	ReportErrors       bool
	LogLevel           string
	Environment        string
	LogFile            string

	// Warnings lists optional settings that were ignored; they are logged once
	// the logger is configured.
	Warnings []string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	practicumToken := os.Getenv("PRACTICUM_TOKEN")
	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	if telegramToken == "" {
		telegramToken = os.Getenv("TOKEN")
	}
	chatIDStr := os.Getenv("BASE_CHAT_ID")

	if err := CheckTokens(practicumToken, telegramToken, chatIDStr); err != nil {
		return nil, err
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(chatIDStr), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid BASE_CHAT_ID: %w", ErrConfiguration, err)
	}

	cfg := &AppConfig{
		PracticumToken: practicumToken,
		TelegramToken:  telegramToken,
		ChatID:         chatID,
	}

	cfg.Endpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.Endpoint == "" {
		cfg.Endpoint = practicum.DefaultEndpoint
	}

	cfg.PollInterval = cfg.seconds("POLL_INTERVAL_SECONDS", 600)
	cfg.RetryWindow = cfg.seconds("RETRY_WINDOW_SECONDS", 600)
	cfg.HTTPTimeout = cfg.seconds("HTTP_TIMEOUT_SECONDS", 10)
	cfg.TelegramRatePerSec = cfg.positiveInt("TELEGRAM_RATE_PER_SEC", 1)

	if v := os.Getenv("REPORT_ERRORS"); v != "" {
		cfg.ReportErrors, err = strconv.ParseBool(v)
		if err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid REPORT_ERRORS %q, using false", v))
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	// An explicitly empty LOG_FILE disables the file sink.
	logFile, ok := os.LookupEnv("LOG_FILE")
	if !ok {
		logFile = "main.log"
	}
	cfg.LogFile = logFile

	return cfg, nil
}

// CheckTokens verifies that every required secret is present.
// All missing variables are reported in a single error.
func CheckTokens(practicumToken, telegramToken, chatID string) error {
	var err error
	if strings.TrimSpace(practicumToken) == "" {
		err = multierr.Append(err, fmt.Errorf("PRACTICUM_TOKEN is not set"))
	}
	if strings.TrimSpace(telegramToken) == "" {
		err = multierr.Append(err, fmt.Errorf("TELEGRAM_TOKEN is not set"))
	}
	if strings.TrimSpace(chatID) == "" {
		err = multierr.Append(err, fmt.Errorf("BASE_CHAT_ID is not set"))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

func (c *AppConfig) positiveInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s %q, using %d", key, v, def))
		return def
	}
	return n
}

func (c *AppConfig) seconds(key string, def int) time.Duration {
	return time.Duration(c.positiveInt(key, def)) * time.Second
}
