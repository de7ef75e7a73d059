package config

import "time"

const (
	// Conversation window sent with every completion request
	HistoryWindow = 6

	// Sampling bounds accepted by OpenAI-compatible providers
	MinTemperature = 0.0
	MaxTemperature = 2.0

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Completion response body limit
	MaxResponseBodyBytes = 5 * 1024 * 1024

	// Rate limit window
	RateLimitWindow = time.Minute

	// HTTP server
	ShutdownTimeout   = 10 * time.Second
	ReadHeaderTimeout = 5 * time.Second

	// Models per page in /models
	ModelsPerPage = 10

	// Postgres pool, preferences only
	DBMaxConns = 10
	DBMinConns = 2

	// Typing indicator refresh while a reply is pending
	TypingInterval = 4 * time.Second
)
