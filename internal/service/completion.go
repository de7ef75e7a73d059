package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/shopspring/decimal"
)

// CompletionClient talks to an OpenAI-compatible chat-completions API.
type CompletionClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *ModelsCache
}

func NewCompletionClient(cfg config.AssistantConfig) *CompletionClient {
	return NewCompletionClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewCompletionClientWithHTTP uses httpClient for all calls. A nil client
// gets the default timeout from cfg.
func NewCompletionClientWithHTTP(cfg config.AssistantConfig, httpClient *http.Client) *CompletionClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &CompletionClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		cache:      NewModelsCache(cfg.ModelCacheTTL),
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type ChatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// Chat sends one completion request. Every failure is a *domain.GatewayError.
func (s *CompletionClient) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	if s.apiKey == "" {
		return nil, &domain.GatewayError{Kind: domain.KindUnauthorized, Err: domain.ErrMissingAPIKey}
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.KindMalformedResponse, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.KindNetworkFailure, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.KindNetworkFailure, Err: fmt.Errorf("chat request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBodyBytes))
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.KindNetworkFailure, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.GatewayError{
			Kind:       ClassifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        errors.New(providerErrorMessage(body, resp.Status)),
		}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &domain.GatewayError{Kind: domain.KindMalformedResponse, StatusCode: resp.StatusCode, Err: fmt.Errorf("parse response: %w", err)}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &domain.GatewayError{Kind: domain.KindMalformedResponse, StatusCode: resp.StatusCode, Err: errors.New("no choices in response")}
	}

	return &chatResp, nil
}

// ClassifyStatus maps a non-2xx status onto the error taxonomy.
func ClassifyStatus(status int) domain.ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.KindUnauthorized
	case http.StatusTooManyRequests:
		return domain.KindRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.KindServiceUnavailable
	default:
		return domain.KindMalformedResponse
	}
}

func providerErrorMessage(body []byte, status string) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return "provider error: " + status
}

// parseRetryAfter understands delay-seconds and HTTP-date values.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func (s *CompletionClient) ListModels(ctx context.Context) ([]domain.AIModel, error) {
	if cached := s.cache.Get(); cached != nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.GatewayError{
			Kind:       ClassifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Err:        errors.New(providerErrorMessage(body, resp.Status)),
		}
	}

	var result struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			OwnedBy       string `json:"owned_by"`
			Active        *bool  `json:"active"`
			ContextWindow int    `json:"context_window"`
			ContextLength int    `json:"context_length"`
			Pricing       struct {
				Prompt     string `json:"prompt"`
				Completion string `json:"completion"`
			} `json:"pricing"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	perMillion := decimal.NewFromInt(1_000_000)
	models := make([]domain.AIModel, 0, len(result.Data))
	for _, m := range result.Data {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		ctxLen := m.ContextWindow
		if m.ContextLength > 0 {
			ctxLen = m.ContextLength
		}
		active := true
		if m.Active != nil {
			active = *m.Active
		}
		// Prices are published per token, shown per 1M tokens
		models = append(models, domain.AIModel{
			ID:              m.ID,
			Name:            name,
			OwnedBy:         m.OwnedBy,
			PromptPrice:     parsePrice(m.Pricing.Prompt).Mul(perMillion),
			CompletionPrice: parsePrice(m.Pricing.Completion).Mul(perMillion),
			ContextLength:   ctxLen,
			Active:          active,
		})
	}

	s.cache.Set(models)
	return models, nil
}

func (s *CompletionClient) GetModel(ctx context.Context, modelID string) (*domain.AIModel, error) {
	models, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		if m.ID == modelID {
			return &m, nil
		}
	}
	return nil, domain.ErrModelNotFound
}

func parsePrice(v string) decimal.Decimal {
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}
