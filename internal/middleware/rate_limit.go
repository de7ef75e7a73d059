package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/telegram"
)

// Limiter counts messages per chat in fixed windows.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[int64]*chatWindow
	now     func() time.Time
}

type chatWindow struct {
	start time.Time
	count int
}

// NewLimiter allows limit messages per chat per window. A limit <= 0
// disables limiting.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		windows: make(map[int64]*chatWindow),
		now:     time.Now,
	}
}

// Allow records one message from chatID and reports whether it is within the
// limit, along with the count in the current window.
func (l *Limiter) Allow(chatID int64) (bool, int) {
	if l.limit <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[chatID]
	if !ok || now.Sub(w.start) >= l.window {
		w = &chatWindow{start: now}
		l.windows[chatID] = w
	}
	w.count++
	return w.count <= l.limit, w.count
}

// Prune drops windows that have expired and returns how many were removed.
func (l *Limiter) Prune() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, id)
			removed++
		}
	}
	return removed
}

// RateLimit returns middleware that enforces the per-chat message limit.
func RateLimit(limiter *Limiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only messages count, callbacks pass through
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			allowed, count := limiter.Allow(chatID)
			if !allowed {
				slog.Debug("rate limited", "chat_id", chatID, "count", count, "limit", limiter.limit)
				// Only the first refused message gets a notice
				if count == limiter.limit+1 {
					lang, _ := GetLanguage(ctx)
					if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
						ChatID: chatID,
						Text:   telegram.Text(telegram.TextTooManyRequests, lang),
					}); err != nil {
						slog.Error("send rate limit notice", "chat_id", chatID, "error", err)
					}
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
