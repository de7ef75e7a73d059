package middleware

import "github.com/go-telegram/bot/models"

// updateSource reports the kind of update and the chat and user it came from.
func updateSource(update *models.Update) (kind string, chatID, userID int64) {
	switch {
	case update.Message != nil:
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		return "message", update.Message.Chat.ID, userID
	case update.CallbackQuery != nil:
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			chatID = msg.Chat.ID
		}
		return "callback_query", chatID, update.CallbackQuery.From.ID
	case update.EditedMessage != nil:
		return "edited_message", update.EditedMessage.Chat.ID, 0
	default:
		return "unknown", 0, 0
	}
}
