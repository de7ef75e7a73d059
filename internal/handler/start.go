package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/set-night/swifthub/internal/middleware"
	tg "github.com/set-night/swifthub/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	chatID := update.Message.Chat.ID

	lang, ok := middleware.GetLanguage(ctx)
	if !ok {
		h.sendLanguagePicker(ctx, b, chatID, "")
		return
	}
	if h.replyInFlight(ctx, b, chatID, lang) {
		return
	}

	h.startConversation(ctx, b, chatID, lang)
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	lang, _ := middleware.GetLanguage(ctx)
	if err := tg.SendText(ctx, b, update.Message.Chat.ID, tg.Text(tg.TextHelp, lang), nil); err != nil {
		slog.Error("send help", "chat_id", update.Message.Chat.ID, "error", err)
	}
}

// startConversation replaces the chat conversation with a fresh one and sends
// its greeting.
func (h *Handler) startConversation(ctx context.Context, b *bot.Bot, chatID int64, lang domain.Language) {
	conv, err := h.conversations.Reset(conversationKey(chatID), lang)
	if err != nil {
		slog.Error("reset conversation", "chat_id", chatID, "error", err)
		return
	}
	greeting := conv.Messages()[0].Text
	if err := tg.SendText(ctx, b, chatID, greeting, nil); err != nil {
		slog.Error("send greeting", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) sendLanguagePicker(ctx context.Context, b *bot.Bot, chatID int64, current domain.Language) {
	if err := tg.SendText(ctx, b, chatID, tg.Text(tg.TextLanguagePrompt, current), tg.LanguagePicker(current)); err != nil {
		slog.Error("send language picker", "chat_id", chatID, "error", err)
	}
}
