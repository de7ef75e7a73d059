package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/domain"
)

type ctxKey string

const LanguageKey ctxKey = "language"

// LanguageReader is the part of service.PreferenceService the loader needs.
type LanguageReader interface {
	Language(ctx context.Context, chatID int64) (domain.Language, error)
}

// GetLanguage extracts the chat language preference from context. The bool
// is false when the chat has not chosen a language yet.
func GetLanguage(ctx context.Context) (domain.Language, bool) {
	lang, ok := ctx.Value(LanguageKey).(domain.Language)
	if !ok || !lang.Valid() {
		return "", false
	}
	return lang, true
}

// WithLanguage stores lang in ctx.
func WithLanguage(ctx context.Context, lang domain.Language) context.Context {
	return context.WithValue(ctx, LanguageKey, lang)
}

// LanguageLoader returns middleware that loads the chat language preference
// into context.
func LanguageLoader(prefs LanguageReader) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			_, chatID, _ := updateSource(update)
			if chatID == 0 {
				next(ctx, b, update)
				return
			}

			lang, err := prefs.Language(ctx, chatID)
			switch {
			case err == nil:
				ctx = WithLanguage(ctx, lang)
			case errors.Is(err, domain.ErrLanguageNotSet):
			default:
				slog.Error("load language preference", "chat_id", chatID, "error", err)
			}

			next(ctx, b, update)
		}
	}
}
