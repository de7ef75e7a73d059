package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/set-night/swifthub/internal/middleware"
	tg "github.com/set-night/swifthub/internal/telegram"
)

// handleStats shows live conversations and stored language choices to admins.
func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if !h.cfg.IsAdmin(update.Message.From.ID) {
		return
	}
	chatID := update.Message.Chat.ID
	lang, _ := middleware.GetLanguage(ctx)

	var byLang map[domain.Language]int64
	if h.stats != nil {
		var err error
		byLang, err = h.stats.LanguageStats(ctx)
		if err != nil {
			slog.Error("language stats", "error", err)
		}
	}

	text := formatStats(lang, h.conversations.Len(), byLang, h.gateway.Model())
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func formatStats(lang domain.Language, live int, byLang map[domain.Language]int64, model string) string {
	return fmt.Sprintf(
		"%s\n\n"+
			"💬 Conversations: %d\n"+
			"🇲🇦 ar: %d\n"+
			"🇫🇷 fr: %d\n"+
			"🤖 Model: `%s`",
		tg.Text(tg.TextStats, lang),
		live,
		byLang[domain.LanguageArabic],
		byLang[domain.LanguageFrench],
		model,
	)
}
