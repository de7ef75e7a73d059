package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/middleware"
	tg "github.com/set-night/swifthub/internal/telegram"
)

// HandleTextPrivate sends a private text message to the assistant and
// replies with its answer or the localized fallback.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") {
		return
	}
	chatID := msg.Chat.ID

	lang, ok := middleware.GetLanguage(ctx)
	if !ok {
		h.sendLanguagePicker(ctx, b, chatID, "")
		return
	}

	text := msg.Text
	if strings.TrimSpace(text) == "" {
		return
	}

	conv, _, err := h.conversations.GetOrCreate(conversationKey(chatID), lang)
	if err != nil {
		slog.Error("get conversation", "chat_id", chatID, "error", err)
		return
	}

	// 1. One reply at a time per chat
	if !conv.TryBeginReply() {
		if err := tg.SendText(ctx, b, chatID, tg.Text(tg.TextPleaseWait, conv.Language()), nil); err != nil {
			slog.Error("send please wait", "chat_id", chatID, "error", err)
		}
		return
	}
	defer conv.EndReply()

	// 2. The window excludes the message being answered
	history := conv.RecentWindow(config.HistoryWindow)
	conv.AppendUserMessage(text)

	// 3. Ask the assistant
	replyLang := conv.Language()
	stopTyping := tg.StartTyping(ctx, b, chatID)
	reply := h.gateway.GetReply(ctx, text, history, replyLang)
	stopTyping()

	conv.AppendAssistantMessage(reply.Text, replyLang)
	if reply.Fallback {
		h.tgLogger.LogFallback(chatID, reply.Kind, reply.Attempts, reply.Err)
	}

	// 4. Send response
	if err := tg.SendLongMessage(ctx, b, chatID, reply.Text, &msg.ID); err != nil {
		slog.Error("send reply", "chat_id", chatID, "error", err)
	}
}
