package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/set-night/swifthub/internal/repository/sqlc"
)

// PreferenceRepo stores chat language preferences in chat_preferences.
type PreferenceRepo struct {
	queries *sqlc.Queries
}

func NewPreferenceRepo(queries *sqlc.Queries) *PreferenceRepo {
	return &PreferenceRepo{queries: queries}
}

func (r *PreferenceRepo) GetLanguage(ctx context.Context, chatID int64) (domain.Language, error) {
	row, err := r.queries.GetChatPreference(ctx, chatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrLanguageNotSet
		}
		return "", fmt.Errorf("get chat preference: %w", err)
	}
	lang, err := domain.ParseLanguage(row.Language)
	if err != nil {
		return "", fmt.Errorf("stored language %q: %w", row.Language, err)
	}
	return lang, nil
}

func (r *PreferenceRepo) SetLanguage(ctx context.Context, chatID int64, lang domain.Language) error {
	if _, err := r.queries.UpsertChatPreference(ctx, sqlc.UpsertChatPreferenceParams{
		ChatID:   chatID,
		Language: string(lang),
	}); err != nil {
		return fmt.Errorf("upsert chat preference: %w", err)
	}
	return nil
}

// LanguageStats counts chats per stored language.
func (r *PreferenceRepo) LanguageStats(ctx context.Context) (map[domain.Language]int64, error) {
	rows, err := r.queries.CountChatPreferencesByLanguage(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chat preferences: %w", err)
	}
	stats := make(map[domain.Language]int64, len(rows))
	for _, row := range rows {
		stats[domain.Language(row.Language)] = row.Chats
	}
	return stats, nil
}
