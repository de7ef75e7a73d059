package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/domain"
)

// TelegramLogger mirrors notable events into topics of an operator chat.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.BotConfig
}

func NewTelegramLogger(b *bot.Bot, cfg *config.BotConfig) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError    LogType = "error"
	LogTypeLanguage LogType = "language"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, where string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		where, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

// LogFallback reports a reply that was replaced by the localized fallback.
func (l *TelegramLogger) LogFallback(chatID int64, kind domain.ErrorKind, attempts int, err error) {
	cause := "unknown"
	if err != nil {
		cause = err.Error()
	}
	msg := fmt.Sprintf("⚠️ *Assistant fallback*\n\n*Chat:* `%d`\n*Kind:* %s\n*Attempts:* %d\n*Error:* `%s`\n*Time:* %s",
		chatID, kind, attempts, cause, time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogLanguageChoice(chatID int64, lang domain.Language) {
	msg := fmt.Sprintf("🌐 *Language chosen*\n\n*Chat:* `%d`\n*Language:* %s", chatID, lang)
	l.Log(LogTypeLanguage, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeLanguage:
		return l.cfg.LogTopicLanguage
	default:
		return 0
	}
}
