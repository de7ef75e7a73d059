package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/domain"
)

// Completer is the part of CompletionClient the gateway needs.
type Completer interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Reply is the outcome of GetReply. Text is always safe to show; Kind and Err
// are for logs only.
type Reply struct {
	Text     string
	Fallback bool
	Kind     domain.ErrorKind
	Err      error
	Attempts int
	Usage    Usage
}

type completion struct {
	text  string
	usage Usage
}

// AssistantGateway turns a user turn plus recent history into a reply.
type AssistantGateway struct {
	client       Completer
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
	retry        RetryPolicy
	logger       *slog.Logger
}

func NewAssistantGateway(client Completer, cfg config.AssistantConfig) *AssistantGateway {
	prompt := strings.TrimSpace(cfg.SystemPrompt)
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	return &AssistantGateway{
		client:       client,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		systemPrompt: prompt,
		retry:        RetryPolicyFromConfig(cfg),
		logger:       slog.Default(),
	}
}

// WithLogger replaces the logger used for failure reports.
func (g *AssistantGateway) WithLogger(logger *slog.Logger) *AssistantGateway {
	g.logger = logger
	return g
}

func (g *AssistantGateway) Model() string {
	return g.model
}

// GetReply never fails: provider errors resolve to the fallback text of lang.
func (g *AssistantGateway) GetReply(ctx context.Context, userText string, history []domain.Turn, lang domain.Language) Reply {
	req := ChatRequest{
		Model:       g.model,
		Messages:    g.buildMessages(userText, history),
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}

	start := time.Now()
	result, attempts, err := retryTransient(ctx, g.retry,
		func(ctx context.Context) (completion, error) {
			resp, err := g.client.Chat(ctx, req)
			if err != nil {
				return completion{}, err
			}
			if resp == nil || len(resp.Choices) == 0 {
				return completion{}, &domain.GatewayError{Kind: domain.KindMalformedResponse, Err: errors.New("no choices in response")}
			}
			content := strings.TrimSpace(resp.Choices[0].Message.Content)
			if content == "" {
				return completion{}, &domain.GatewayError{Kind: domain.KindMalformedResponse, Err: domain.ErrEmptyCompletion}
			}
			return completion{text: content, usage: resp.Usage}, nil
		},
		func(attempt int, delay time.Duration, err error) {
			g.logger.Info("retrying assistant request",
				"attempt", attempt,
				"delay", delay,
				"kind", domain.KindOf(err),
				"error", err,
			)
		},
	)

	if err != nil {
		kind := domain.KindOf(err)
		var gwErr *domain.GatewayError
		status := 0
		if errors.As(err, &gwErr) {
			status = gwErr.StatusCode
		}
		g.logger.Warn("assistant request failed",
			"kind", kind,
			"status", status,
			"attempts", attempts,
			"model", g.model,
			"duration", time.Since(start),
			"error", err,
		)
		return Reply{
			Text:     FallbackText(lang),
			Fallback: true,
			Kind:     kind,
			Err:      err,
			Attempts: attempts,
		}
	}

	g.logger.Debug("assistant reply",
		"model", g.model,
		"attempts", attempts,
		"prompt_tokens", result.usage.PromptTokens,
		"completion_tokens", result.usage.CompletionTokens,
		"duration", time.Since(start),
	)
	return Reply{Text: result.text, Attempts: attempts, Usage: result.usage}
}

// buildMessages lays out system prompt, history in order, then the new turn.
func (g *AssistantGateway) buildMessages(userText string, history []domain.Turn) []ChatMessage {
	msgs := make([]ChatMessage, 0, len(history)+2)
	msgs = append(msgs, ChatMessage{Role: string(domain.RoleSystem), Content: g.systemPrompt})
	for _, t := range history {
		msgs = append(msgs, ChatMessage{Role: string(t.Role), Content: t.Content})
	}
	msgs = append(msgs, ChatMessage{Role: string(domain.RoleUser), Content: userText})
	return msgs
}
