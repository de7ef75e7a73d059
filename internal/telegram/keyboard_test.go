package telegram

import (
	"testing"

	"github.com/set-night/swifthub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguagePicker(t *testing.T) {
	kb := LanguagePicker("")
	require.Len(t, kb.InlineKeyboard, 1)
	row := kb.InlineKeyboard[0]
	require.Len(t, row, 2)
	assert.Equal(t, "lang_ar", row[0].CallbackData)
	assert.Equal(t, "lang_fr", row[1].CallbackData)
	assert.NotContains(t, row[0].Text, "✅")

	kb = LanguagePicker(domain.LanguageFrench)
	assert.Contains(t, kb.InlineKeyboard[0][1].Text, "✅")
	assert.NotContains(t, kb.InlineKeyboard[0][0].Text, "✅")
}

func TestPaginationRow(t *testing.T) {
	row := PaginationRow(0, 3, "models")
	require.Len(t, row, 2)
	assert.Equal(t, "1/3", row[0].Text)
	assert.Equal(t, "models_1", row[1].CallbackData)

	row = PaginationRow(2, 3, "models")
	require.Len(t, row, 2)
	assert.Equal(t, "models_1", row[0].CallbackData)

	row = PaginationRow(1, 3, "models")
	assert.Len(t, row, 3)
}
