package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	swifthub "github.com/set-night/swifthub"
	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/handler"
	"github.com/set-night/swifthub/internal/middleware"
	"github.com/set-night/swifthub/internal/repository"
	"github.com/set-night/swifthub/internal/repository/sqlc"
	"github.com/set-night/swifthub/internal/service"
	"github.com/set-night/swifthub/internal/telegram"
)

func main() {
	// Setup structured logging
	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: &level,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.LoadBot()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(config.ParseLogLevel(cfg.LogLevel))

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(swifthub.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize services
	queries := sqlc.New(pool)
	prefRepo := repository.NewPreferenceRepo(queries)
	preferences := service.NewPreferenceService(prefRepo)
	conversations := service.NewConversationRegistry()
	completion := service.NewCompletionClient(cfg.Assistant)
	gateway := service.NewAssistantGateway(completion, cfg.Assistant)
	limiter := middleware.NewLimiter(cfg.RateLimitPerMinute, config.RateLimitWindow)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(cfg),
			middleware.Logging(),
			middleware.LanguageLoader(preferences),
			middleware.RateLimit(limiter),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleDefault(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	h = handler.New(handler.Deps{
		Bot:           b,
		Cfg:           cfg,
		Conversations: conversations,
		Gateway:       gateway,
		Catalogue:     completion,
		Preferences:   preferences,
		Stats:         prefRepo,
		TgLogger:      tgLogger,
		BotUsername:   me.Username,
	})
	h.Register()

	// Evict idle conversations
	go conversations.RunSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)

	// Drop expired rate limit windows
	go func() {
		ticker := time.NewTicker(config.RateLimitWindow)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Prune()
			}
		}
	}()

	// Start bot
	slog.Info("starting bot",
		"username", me.Username,
		"model", gateway.Model(),
		"rate_limit", cfg.RateLimitPerMinute,
	)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
