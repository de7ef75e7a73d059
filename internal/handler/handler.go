package handler

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/set-night/swifthub/internal/service"
	"github.com/set-night/swifthub/internal/telegram"
)

// ModelCatalogue lists the provider models.
type ModelCatalogue interface {
	ListModels(ctx context.Context) ([]domain.AIModel, error)
}

// LanguageStats counts chats per stored language.
type LanguageStats interface {
	LanguageStats(ctx context.Context) (map[domain.Language]int64, error)
}

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot           *bot.Bot
	cfg           *config.BotConfig
	conversations *service.ConversationRegistry
	gateway       *service.AssistantGateway
	catalogue     ModelCatalogue
	preferences   *service.PreferenceService
	stats         LanguageStats
	tgLogger      *telegram.TelegramLogger
	botUsername   string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot           *bot.Bot
	Cfg           *config.BotConfig
	Conversations *service.ConversationRegistry
	Gateway       *service.AssistantGateway
	Catalogue     ModelCatalogue
	Preferences   *service.PreferenceService
	Stats         LanguageStats
	TgLogger      *telegram.TelegramLogger
	BotUsername   string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:           deps.Bot,
		cfg:           deps.Cfg,
		conversations: deps.Conversations,
		gateway:       deps.Gateway,
		catalogue:     deps.Catalogue,
		preferences:   deps.Preferences,
		stats:         deps.Stats,
		tgLogger:      deps.TgLogger,
		botUsername:   deps.BotUsername,
	}
}

// conversationKey is the registry key of a Telegram chat.
func conversationKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
