package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/swifthub/internal/domain"
)

// CallbackLanguagePrefix prefixes language picker callback data (lang_ar, lang_fr).
const CallbackLanguagePrefix = "lang_"

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// LanguageCallback is the callback data of the picker button for lang.
func LanguageCallback(lang domain.Language) string {
	return CallbackLanguagePrefix + string(lang)
}

// LanguagePicker offers both supported languages, each labelled in itself.
// The current choice, if any, is marked.
func LanguagePicker(current domain.Language) *models.InlineKeyboardMarkup {
	label := func(lang domain.Language, name string) string {
		if lang == current {
			return "✅ " + name
		}
		return name
	}
	return InlineKeyboard(ButtonRow(
		InlineButton(label(domain.LanguageArabic, "🇲🇦 العربية"), LanguageCallback(domain.LanguageArabic)),
		InlineButton(label(domain.LanguageFrench, "🇫🇷 Français"), LanguageCallback(domain.LanguageFrench)),
	))
}

// PaginationRow creates a pagination row with prev/next buttons.
func PaginationRow(currentPage, totalPages int, callbackPrefix string) []models.InlineKeyboardButton {
	var row []models.InlineKeyboardButton

	if currentPage > 0 {
		row = append(row, InlineButton("⬅️", fmt.Sprintf("%s_%d", callbackPrefix, currentPage-1)))
	}

	row = append(row, InlineButton(
		fmt.Sprintf("%d/%d", currentPage+1, totalPages),
		"cur",
	))

	if currentPage < totalPages-1 {
		row = append(row, InlineButton("➡️", fmt.Sprintf("%s_%d", callbackPrefix, currentPage+1)))
	}

	return row
}
