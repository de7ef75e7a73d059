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

// handleEnd closes the chat conversation and opens a new one.
func (h *Handler) handleEnd(ctx context.Context, b *bot.Bot, update *models.Update) {
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

	if err := tg.SendText(ctx, b, chatID, tg.Text(tg.TextConversationEnded, lang), nil); err != nil {
		slog.Error("send conversation ended", "chat_id", chatID, "error", err)
	}
	h.startConversation(ctx, b, chatID, lang)
}

// replyInFlight tells the chat to wait and reports true while its
// conversation is waiting on the assistant.
func (h *Handler) replyInFlight(ctx context.Context, b *bot.Bot, chatID int64, lang domain.Language) bool {
	conv, err := h.conversations.Get(conversationKey(chatID))
	if err != nil || !conv.Replying() {
		return false
	}
	if err := tg.SendText(ctx, b, chatID, tg.Text(tg.TextPleaseWait, lang), nil); err != nil {
		slog.Error("send please wait", "chat_id", chatID, "error", err)
	}
	return true
}
