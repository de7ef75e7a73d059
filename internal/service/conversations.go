package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/set-night/swifthub/internal/domain"
)

// ConversationRegistry owns the live conversations of one shell, keyed by
// chat ID (Telegram) or session ID (HTTP API). Nothing is persisted.
type ConversationRegistry struct {
	mu    sync.RWMutex
	items map[string]*Conversation
	now   func() time.Time
}

func NewConversationRegistry() *ConversationRegistry {
	return &ConversationRegistry{
		items: make(map[string]*Conversation),
		now:   time.Now,
	}
}

// Create starts a conversation registered under its own ID.
func (r *ConversationRegistry) Create(lang domain.Language) (*Conversation, error) {
	conv, err := newConversation(lang, r.now)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.items[conv.ID()] = conv
	r.mu.Unlock()
	return conv, nil
}

func (r *ConversationRegistry) Get(key string) (*Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.items[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return conv, nil
}

// GetOrCreate returns the conversation under key, starting one in lang if
// there is none. The bool reports whether a new conversation was created.
func (r *ConversationRegistry) GetOrCreate(key string, lang domain.Language) (*Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.items[key]; ok {
		return conv, false, nil
	}
	conv, err := newConversation(lang, r.now)
	if err != nil {
		return nil, false, err
	}
	r.items[key] = conv
	return conv, true, nil
}

// Reset replaces the conversation under key with a fresh one.
func (r *ConversationRegistry) Reset(key string, lang domain.Language) (*Conversation, error) {
	conv, err := newConversation(lang, r.now)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.items[key] = conv
	r.mu.Unlock()
	return conv, nil
}

// Delete drops the conversation. An in-flight reply keeps its own reference
// and finishes against the detached conversation.
func (r *ConversationRegistry) Delete(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[key]; !ok {
		return false
	}
	delete(r.items, key)
	return true
}

func (r *ConversationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Sweep evicts conversations idle for longer than maxIdle, skipping those
// waiting on a reply. It returns the number evicted.
func (r *ConversationRegistry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for key, conv := range r.items {
		if conv.Replying() || conv.LastActivity().After(cutoff) {
			continue
		}
		delete(r.items, key)
		evicted++
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done. A non-positive
// interval disables sweeping.
func (r *ConversationRegistry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 {
		slog.Warn("conversation sweeper disabled", "interval", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				slog.Debug("idle conversations evicted", "count", n, "remaining", r.Len())
			}
		}
	}
}
