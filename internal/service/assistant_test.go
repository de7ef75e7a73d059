package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssistantConfig(baseURL string) config.AssistantConfig {
	return config.AssistantConfig{
		APIKey:        "test-key",
		Model:         "llama3-70b-8192",
		BaseURL:       baseURL,
		Temperature:   0.7,
		MaxTokens:     1024,
		Timeout:       2 * time.Second,
		MaxRetries:    0,
		RetryDelay:    time.Millisecond,
		RetryMaxDelay: 5 * time.Millisecond,
		ModelCacheTTL: time.Minute,
	}
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":    "chatcmpl-1",
		"model": "llama3-70b-8192",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17},
	})
	return string(b)
}

func newGateway(t *testing.T, cfg config.AssistantConfig, logger *slog.Logger) *AssistantGateway {
	t.Helper()
	gw := NewAssistantGateway(NewCompletionClient(cfg), cfg)
	if logger != nil {
		gw.WithLogger(logger)
	} else {
		gw.WithLogger(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	}
	return gw
}

func TestGetReplySuccessFrenchScenario(t *testing.T) {
	var captured ChatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  Votre colis est en route.  ")))
	}))
	defer srv.Close()

	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)
	history := conv.RecentWindow(config.HistoryWindow)
	conv.AppendUserMessage("Où est mon colis ?")

	gw := newGateway(t, testAssistantConfig(srv.URL), nil)
	reply := gw.GetReply(context.Background(), "Où est mon colis ?", history, domain.LanguageFrench)
	conv.AppendAssistantMessage(reply.Text, domain.LanguageFrench)

	assert.False(t, reply.Fallback)
	assert.Equal(t, domain.KindNone, reply.Kind)
	assert.Equal(t, "Votre colis est en route.", reply.Text)
	assert.Equal(t, 1, reply.Attempts)
	assert.Equal(t, 17, reply.Usage.TotalTokens)
	assert.Equal(t, "Bearer test-key", auth)

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.SenderAssistant, msgs[0].Sender)
	assert.Equal(t, domain.SenderUser, msgs[1].Sender)
	assert.Equal(t, domain.SenderAssistant, msgs[2].Sender)
	assert.Equal(t, "Votre colis est en route.", msgs[2].Text)

	assert.Equal(t, "llama3-70b-8192", captured.Model)
	assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
	assert.Equal(t, 1024, captured.MaxTokens)
	require.Len(t, captured.Messages, 3)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, ChatMessage{Role: "assistant", Content: Greeting(domain.LanguageFrench)}, captured.Messages[1])
	assert.Equal(t, ChatMessage{Role: "user", Content: "Où est mon colis ?"}, captured.Messages[2])
}

func TestGetReplyBuildsFrameInOrder(t *testing.T) {
	gw := NewAssistantGateway(nil, testAssistantConfig("http://unused"))
	history := []domain.Turn{
		{Role: domain.RoleAssistant, Content: "a1"},
		{Role: domain.RoleUser, Content: "u1"},
		{Role: domain.RoleAssistant, Content: "a2"},
	}

	msgs := gw.buildMessages("u2", history)

	require.Len(t, msgs, 5)
	assert.Equal(t, ChatMessage{Role: "system", Content: defaultSystemPrompt}, msgs[0])
	assert.Equal(t, "a1", msgs[1].Content)
	assert.Equal(t, "u1", msgs[2].Content)
	assert.Equal(t, "a2", msgs[3].Content)
	assert.Equal(t, ChatMessage{Role: "user", Content: "u2"}, msgs[4])
}

func TestSystemPromptOverride(t *testing.T) {
	cfg := testAssistantConfig("http://unused")
	cfg.SystemPrompt = "  Custom persona  "
	gw := NewAssistantGateway(nil, cfg)

	msgs := gw.buildMessages("hi", nil)
	assert.Equal(t, "Custom persona", msgs[0].Content)
}

func TestGetReplyFallbackKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   domain.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"invalid api key"}}`, domain.KindUnauthorized},
		{"forbidden", http.StatusForbidden, `{}`, domain.KindUnauthorized},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, domain.KindRateLimited},
		{"unavailable", http.StatusServiceUnavailable, `oops`, domain.KindServiceUnavailable},
		{"bad gateway", http.StatusBadGateway, ``, domain.KindServiceUnavailable},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad"}}`, domain.KindMalformedResponse},
		{"garbage body", http.StatusOK, `not json`, domain.KindMalformedResponse},
		{"no choices", http.StatusOK, `{"choices":[]}`, domain.KindMalformedResponse},
		{"empty content", http.StatusOK, completionBody("   "), domain.KindMalformedResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			gw := newGateway(t, testAssistantConfig(srv.URL), nil)
			for _, lang := range []domain.Language{domain.LanguageArabic, domain.LanguageFrench} {
				reply := gw.GetReply(context.Background(), "bonjour", nil, lang)
				assert.True(t, reply.Fallback)
				assert.Equal(t, tc.kind, reply.Kind)
				assert.Equal(t, FallbackText(lang), reply.Text)
				assert.Error(t, reply.Err)
			}
		})
	}
}

func TestGetReplyTimeoutIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testAssistantConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	gw := newGateway(t, cfg, nil)

	reply := gw.GetReply(context.Background(), "مرحبا", nil, domain.LanguageArabic)
	assert.True(t, reply.Fallback)
	assert.Equal(t, domain.KindNetworkFailure, reply.Kind)
	assert.Equal(t, FallbackText(domain.LanguageArabic), reply.Text)
}

func TestGetReplyConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gw := newGateway(t, testAssistantConfig(url), nil)
	reply := gw.GetReply(context.Background(), "bonjour", nil, domain.LanguageFrench)
	assert.True(t, reply.Fallback)
	assert.Equal(t, domain.KindNetworkFailure, reply.Kind)
}

func TestGetReplyMissingKeySkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	cfg := testAssistantConfig(srv.URL)
	cfg.APIKey = ""
	gw := newGateway(t, cfg, nil)

	reply := gw.GetReply(context.Background(), "bonjour", nil, domain.LanguageFrench)
	assert.True(t, reply.Fallback)
	assert.Equal(t, domain.KindUnauthorized, reply.Kind)
	assert.ErrorIs(t, reply.Err, domain.ErrMissingAPIKey)
	assert.Zero(t, hits.Load())
}

func TestGetReplyRateLimitedIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	gw := newGateway(t, testAssistantConfig(srv.URL), logger)

	conv, err := NewConversation(domain.LanguageArabic)
	require.NoError(t, err)
	history := conv.RecentWindow(config.HistoryWindow)
	conv.AppendUserMessage("أين طلبي؟")
	reply := gw.GetReply(context.Background(), "أين طلبي؟", history, domain.LanguageArabic)
	conv.AppendAssistantMessage(reply.Text, domain.LanguageArabic)

	assert.Equal(t, domain.KindRateLimited, reply.Kind)
	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, FallbackText(domain.LanguageArabic), msgs[2].Text)
	assert.Contains(t, logs.String(), `"kind":"RateLimited"`)
	assert.Contains(t, logs.String(), `"status":429`)
	assert.Contains(t, logs.String(), "assistant request failed")
}

func TestGetReplyRetriesTransientFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	cfg := testAssistantConfig(srv.URL)
	cfg.MaxRetries = 1
	gw := newGateway(t, cfg, nil)

	reply := gw.GetReply(context.Background(), "bonjour", nil, domain.LanguageFrench)
	assert.False(t, reply.Fallback)
	assert.Equal(t, "ok", reply.Text)
	assert.Equal(t, 2, reply.Attempts)
	assert.EqualValues(t, 2, hits.Load())
}

func TestGetReplyDoesNotRetryPermanentFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := testAssistantConfig(srv.URL)
	cfg.MaxRetries = 3
	gw := newGateway(t, cfg, nil)

	reply := gw.GetReply(context.Background(), "bonjour", nil, domain.LanguageFrench)
	assert.True(t, reply.Fallback)
	assert.Equal(t, 1, reply.Attempts)
	assert.EqualValues(t, 1, hits.Load())
}

func TestGetReplyDoesNotTouchConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)
	gw := newGateway(t, testAssistantConfig(srv.URL), nil)

	_ = gw.GetReply(context.Background(), "bonjour", conv.RecentWindow(6), domain.LanguageFrench)
	assert.Equal(t, 1, conv.Len())
}
