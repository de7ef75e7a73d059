package api

import (
	"time"

	"github.com/set-night/swifthub/internal/domain"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateSessionRequest struct {
	Language string `json:"language" binding:"required"`
}

type SessionResponse struct {
	ID           string           `json:"id"`
	Language     domain.Language  `json:"language"`
	RTL          bool             `json:"rtl"`
	CreatedAt    time.Time        `json:"created_at"`
	LastActivity time.Time        `json:"last_activity"`
	Messages     []domain.Message `json:"messages"`
}

type SendMessageRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type SendMessageResponse struct {
	Reply     domain.Message   `json:"reply"`
	Fallback  bool             `json:"fallback"`
	ErrorKind domain.ErrorKind `json:"error_kind,omitempty"`
	Messages  []domain.Message `json:"messages"`
}

type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

type ModelResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	OwnedBy         string          `json:"owned_by,omitempty"`
	ContextLength   int             `json:"context_length,omitempty"`
	PromptPrice     decimal.Decimal `json:"prompt_price_per_million"`
	CompletionPrice decimal.Decimal `json:"completion_price_per_million"`
	Active          bool            `json:"active"`
	Current         bool            `json:"current"`
}

type ModelsResponse struct {
	Current string          `json:"current"`
	Models  []ModelResponse `json:"models"`
}
