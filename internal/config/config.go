package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AssistantConfig configures the completion endpoint. The API key has no
// default and must come from the environment.
type AssistantConfig struct {
	APIKey       string        `env:"ASSISTANT_API_KEY,required,notEmpty"`
	Model        string        `env:"ASSISTANT_MODEL" envDefault:"llama3-70b-8192"`
	BaseURL      string        `env:"ASSISTANT_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	Temperature  float64       `env:"ASSISTANT_TEMPERATURE" envDefault:"0.7"`
	MaxTokens    int           `env:"ASSISTANT_MAX_TOKENS" envDefault:"1024"`
	Timeout      time.Duration `env:"ASSISTANT_TIMEOUT" envDefault:"30s"`
	SystemPrompt string        `env:"ASSISTANT_SYSTEM_PROMPT"`

	// Retry applies to transient failures only.
	MaxRetries    int           `env:"ASSISTANT_MAX_RETRIES" envDefault:"1"`
	RetryDelay    time.Duration `env:"ASSISTANT_RETRY_DELAY" envDefault:"500ms"`
	RetryMaxDelay time.Duration `env:"ASSISTANT_RETRY_MAX_DELAY" envDefault:"5s"`

	ModelCacheTTL time.Duration `env:"MODEL_CACHE_TTL" envDefault:"1h"`
}

type SessionConfig struct {
	IdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

// BotConfig is the configuration of the Telegram bot.
type BotConfig struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required,notEmpty"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
	RateLimitPerMinute int  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicLanguage  int   `env:"LOG_TOPIC_LANGUAGE"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Assistant AssistantConfig
	Session   SessionConfig
}

// APIConfig is the configuration of the HTTP API used by the web front-end.
type APIConfig struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`

	Assistant AssistantConfig
	Session   SessionConfig
}

// LoadBot reads an optional .env file and parses the bot configuration.
func LoadBot() (*BotConfig, error) {
	loadDotEnv()
	cfg := &BotConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Assistant.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAPI reads an optional .env file and parses the API configuration.
func LoadAPI() (*APIConfig, error) {
	loadDotEnv()
	cfg := &APIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Assistant.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() {
	// A missing .env is normal in containers.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}
}

// Validate checks sampling and retry settings.
func (c *AssistantConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("ASSISTANT_API_KEY is empty")
	}
	if c.Temperature < MinTemperature || c.Temperature > MaxTemperature {
		return fmt.Errorf("ASSISTANT_TEMPERATURE must be within [%.1f, %.1f], got %.2f", MinTemperature, MaxTemperature, c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("ASSISTANT_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("ASSISTANT_MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("ASSISTANT_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

// Validate requires positive idle and sweep durations.
func (c *SessionConfig) Validate() error {
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", c.IdleTimeout)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	return nil
}

func (c *BotConfig) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// ParseLogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
