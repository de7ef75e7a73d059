package handler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/set-night/swifthub/internal/middleware"
	tg "github.com/set-night/swifthub/internal/telegram"
)

const callbackModelsPage = "mp"

func (h *Handler) handleModels(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendModelsPage(ctx, b, update.Message.Chat.ID, 0, false, 0)
}

func (h *Handler) handleModelsPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	page, err := strconv.Atoi(strings.TrimPrefix(cb.Data, callbackModelsPage+"_"))
	if err != nil {
		return
	}
	h.sendModelsPage(ctx, b, cb.Message.Message.Chat.ID, page, true, cb.Message.Message.ID)
}

func (h *Handler) sendModelsPage(ctx context.Context, b *bot.Bot, chatID int64, page int, edit bool, messageID int) {
	lang, _ := middleware.GetLanguage(ctx)

	all, err := h.catalogue.ListModels(ctx)
	if err != nil {
		slog.Error("list models", "chat_id", chatID, "kind", domain.KindOf(err), "error", err)
		if err := tg.SendText(ctx, b, chatID, tg.Text(tg.TextModelsUnavailable, lang), nil); err != nil {
			slog.Error("send models unavailable", "chat_id", chatID, "error", err)
		}
		return
	}

	text, markup := renderModelsPage(all, h.gateway.Model(), lang, page)

	if edit {
		_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: markup,
		})
	} else {
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: markup,
		})
	}
	if err != nil {
		slog.Error("send models page", "chat_id", chatID, "error", err)
	}
}

// renderModelsPage lists active models, current first then by ID. The
// keyboard is nil when everything fits on one page.
func renderModelsPage(all []domain.AIModel, current string, lang domain.Language, page int) (string, *models.InlineKeyboardMarkup) {
	active := make([]domain.AIModel, 0, len(all))
	for _, m := range all {
		if m.Active || m.ID == current {
			active = append(active, m)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if (active[i].ID == current) != (active[j].ID == current) {
			return active[i].ID == current
		}
		return active[i].ID < active[j].ID
	})

	totalPages := (len(active) + config.ModelsPerPage - 1) / config.ModelsPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	start := page * config.ModelsPerPage
	end := min(start+config.ModelsPerPage, len(active))

	var sb strings.Builder
	sb.WriteString(tg.Text(tg.TextModelsHeader, lang))
	sb.WriteString("\n\n")
	for _, m := range active[start:end] {
		sb.WriteString("• *" + m.Name + "*")
		if m.ID == current {
			sb.WriteString(" " + tg.Text(tg.TextCurrentModel, lang))
		}
		sb.WriteString("\n")
		var details []string
		if m.OwnedBy != "" {
			details = append(details, m.OwnedBy)
		}
		if m.ContextLength > 0 {
			details = append(details, fmt.Sprintf("📝 %dk ctx", m.ContextLength/1000))
		}
		if m.HasPricing() {
			details = append(details, fmt.Sprintf("💰 $%s / $%s per 1M",
				m.PromptPrice.Round(4).String(), m.CompletionPrice.Round(4).String()))
		}
		if len(details) > 0 {
			sb.WriteString("  " + strings.Join(details, " | ") + "\n")
		}
	}

	if totalPages == 1 {
		return sb.String(), nil
	}
	return sb.String(), tg.InlineKeyboard(tg.PaginationRow(page, totalPages, callbackModelsPage))
}
