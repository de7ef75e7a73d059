package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/set-night/swifthub/internal/middleware"
	tg "github.com/set-night/swifthub/internal/telegram"
)

func (h *Handler) handleLanguage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	current, _ := middleware.GetLanguage(ctx)
	h.sendLanguagePicker(ctx, b, update.Message.Chat.ID, current)
}

// handleLanguageSelect stores the picked language. A chat that has not talked
// yet gets a fresh greeting; an ongoing conversation keeps its history and
// continues in the new language.
func (h *Handler) handleLanguageSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	chatID := cb.Message.Message.Chat.ID
	lang, err := domain.ParseLanguage(strings.TrimPrefix(cb.Data, tg.CallbackLanguagePrefix))
	if err != nil {
		slog.Warn("unknown language callback", "chat_id", chatID, "data", cb.Data)
		return
	}

	if err := h.preferences.SetLanguage(ctx, chatID, lang); err != nil {
		slog.Error("save language preference", "chat_id", chatID, "error", err)
		h.tgLogger.LogError(err, "save language preference")
		return
	}
	h.tgLogger.LogLanguageChoice(chatID, lang)

	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: cb.Message.Message.ID,
		Text:      tg.Text(tg.TextLanguageSaved, lang),
	}); err != nil {
		slog.Warn("edit language picker", "chat_id", chatID, "error", err)
	}

	conv, err := h.conversations.Get(conversationKey(chatID))
	if err == nil && conv.Len() > 1 {
		if err := conv.SetLanguage(lang); err != nil {
			slog.Error("switch conversation language", "chat_id", chatID, "error", err)
		}
		return
	}
	h.startConversation(ctx, b, chatID, lang)
}
