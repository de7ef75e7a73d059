package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/config"
	tg "github.com/set-night/swifthub/internal/telegram"
)

// Recover returns middleware that recovers from handler panics, logs them
// with the stack and mirrors them into the error topic of the log chat.
// A nil cfg only logs.
func Recover(cfg *config.BotConfig) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				kind, chatID, _ := updateSource(update)
				slog.Error("panic recovered in handler",
					"panic", r,
					"update", kind,
					"chat_id", chatID,
					"stack", string(debug.Stack()),
				)
				if b != nil && cfg != nil {
					tg.NewTelegramLogger(b, cfg).LogError(fmt.Errorf("panic: %v", r), fmt.Sprintf("%s from chat %d", kind, chatID))
				}
			}()
			next(ctx, b, update)
		}
	}
}
