package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/set-night/swifthub/internal/domain"
)

// PreferenceStore persists the chat language choice.
type PreferenceStore interface {
	GetLanguage(ctx context.Context, chatID int64) (domain.Language, error)
	SetLanguage(ctx context.Context, chatID int64, lang domain.Language) error
}

// PreferenceService reads language preferences through a write-through cache.
type PreferenceService struct {
	store PreferenceStore

	mu    sync.RWMutex
	cache map[int64]domain.Language
}

func NewPreferenceService(store PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store, cache: make(map[int64]domain.Language)}
}

// Language returns domain.ErrLanguageNotSet until the chat picks one.
func (s *PreferenceService) Language(ctx context.Context, chatID int64) (domain.Language, error) {
	s.mu.RLock()
	lang, ok := s.cache[chatID]
	s.mu.RUnlock()
	if ok {
		return lang, nil
	}

	lang, err := s.store.GetLanguage(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrLanguageNotSet) {
			return "", err
		}
		return "", fmt.Errorf("get language: %w", err)
	}

	s.mu.Lock()
	s.cache[chatID] = lang
	s.mu.Unlock()
	return lang, nil
}

func (s *PreferenceService) SetLanguage(ctx context.Context, chatID int64, lang domain.Language) error {
	if !lang.Valid() {
		return domain.ErrUnsupportedLanguage
	}
	if err := s.store.SetLanguage(ctx, chatID, lang); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	s.mu.Lock()
	s.cache[chatID] = lang
	s.mu.Unlock()
	return nil
}
