package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/middleware"
	tg "github.com/set-night/swifthub/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/language", bot.MatchTypePrefix, h.handleLanguage)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/end", bot.MatchTypePrefix, h.handleEnd)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/models", bot.MatchTypePrefix, h.handleModels)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, h.handleStats)

	// Language picker
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackLanguagePrefix, bot.MatchTypePrefix, h.handleLanguageSelect)

	// Models pagination
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, callbackModelsPage+"_", bot.MatchTypePrefix, h.handleModelsPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "cur", bot.MatchTypeExact, h.handleNoop)

	// Everything else that is text goes to the assistant
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
			return
		}
		h.HandleTextPrivate(ctx, b, update)
	})
}

// HandleDefault answers updates no registered handler matched, such as
// photos, stickers or voice notes.
func (h *Handler) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	lang, _ := middleware.GetLanguage(ctx)
	if err := tg.SendText(ctx, b, update.Message.Chat.ID, tg.Text(tg.TextTextOnly, lang), nil); err != nil {
		slog.Error("send text only notice", "chat_id", update.Message.Chat.ID, "error", err)
	}
}

// handleNoop is a no-op callback handler used for pagination indicators and other
// non-interactive inline buttons. It simply acknowledges the callback query.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}
