package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/set-night/swifthub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversationSeedsGreeting(t *testing.T) {
	for _, lang := range []domain.Language{domain.LanguageArabic, domain.LanguageFrench} {
		t.Run(string(lang), func(t *testing.T) {
			conv, err := NewConversation(lang)
			require.NoError(t, err)

			msgs := conv.Messages()
			require.Len(t, msgs, 1)
			assert.Equal(t, domain.SenderAssistant, msgs[0].Sender)
			assert.Equal(t, lang, msgs[0].Language)
			assert.Equal(t, Greeting(lang), msgs[0].Text)
			assert.NotEmpty(t, msgs[0].ID)
		})
	}
}

func TestNewConversationRejectsUnknownLanguage(t *testing.T) {
	_, err := NewConversation("en")
	require.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
}

func TestGreetingsDifferFromFallbacks(t *testing.T) {
	for _, lang := range []domain.Language{domain.LanguageArabic, domain.LanguageFrench} {
		assert.NotEqual(t, Greeting(lang), FallbackText(lang))
	}
	assert.NotEqual(t, Greeting(domain.LanguageArabic), Greeting(domain.LanguageFrench))
	assert.Contains(t, FallbackText(domain.LanguageFrench), "Désolé")
	assert.Contains(t, FallbackText(domain.LanguageArabic), "عذرًا")
}

func TestArabicSessionScenario(t *testing.T) {
	conv, err := NewConversation(domain.LanguageArabic)
	require.NoError(t, err)
	require.Equal(t, 1, conv.Len())

	transcript := conv.AppendUserMessage("مرحبا")
	require.Len(t, transcript, 2)

	window := conv.RecentWindow(6)
	require.Len(t, window, 2)
	assert.Equal(t, domain.Turn{Role: domain.RoleAssistant, Content: Greeting(domain.LanguageArabic)}, window[0])
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "مرحبا"}, window[1])
}

func TestAppendUserMessageIgnoresBlankInput(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		transcript := conv.AppendUserMessage(text)
		assert.Len(t, transcript, 1)
	}
	assert.Equal(t, 1, conv.Len())
}

func TestAppendPreservesCallOrder(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)
	before := conv.Messages()[0]

	var want []string
	for i := 0; i < 5; i++ {
		u := fmt.Sprintf("question %d", i)
		a := fmt.Sprintf("réponse %d", i)
		conv.AppendUserMessage(u)
		conv.AppendAssistantMessage(a, domain.LanguageFrench)
		want = append(want, u, a)
	}

	window := conv.RecentWindow(len(want))
	require.Len(t, window, len(want))
	for i, turn := range window {
		assert.Equal(t, want[i], turn.Content)
	}
	assert.Equal(t, before, conv.Messages()[0])
}

func TestRecentWindowBound(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)

	for i := 1; i <= 20; i++ {
		conv.AppendUserMessage(fmt.Sprintf("m%d", i))
		assert.LessOrEqual(t, len(conv.RecentWindow(6)), 6)
		if conv.Len() <= 6 {
			assert.Len(t, conv.RecentWindow(6), conv.Len())
		}
	}
	assert.Empty(t, conv.RecentWindow(0))
	assert.Empty(t, conv.RecentWindow(-3))
}

func TestRecentWindowDropsOldest(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)
	// greeting + 7 more makes 8 messages
	for i := 1; i <= 7; i++ {
		if i%2 == 1 {
			conv.AppendUserMessage(fmt.Sprintf("m%d", i))
		} else {
			conv.AppendAssistantMessage(fmt.Sprintf("m%d", i), domain.LanguageFrench)
		}
	}
	require.Equal(t, 8, conv.Len())

	window := conv.RecentWindow(6)
	require.Len(t, window, 6)
	for i, turn := range window {
		assert.Equal(t, fmt.Sprintf("m%d", i+2), turn.Content)
	}
	assert.Equal(t, domain.RoleAssistant, window[0].Role)
	assert.Equal(t, domain.RoleUser, window[1].Role)
}

func TestRecentWindowDoesNotMutate(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)
	conv.AppendUserMessage("bonjour")

	window := conv.RecentWindow(6)
	window[0].Content = "changed"

	assert.Equal(t, Greeting(domain.LanguageFrench), conv.Messages()[0].Text)
	assert.Equal(t, 2, conv.Len())
}

func TestLanguageTagging(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)

	conv.AppendUserMessage("bonjour")
	require.NoError(t, conv.SetLanguage(domain.LanguageArabic))
	conv.AppendUserMessage("مرحبا")

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.LanguageFrench, msgs[0].Language)
	assert.Equal(t, domain.LanguageFrench, msgs[1].Language)
	assert.Equal(t, domain.LanguageArabic, msgs[2].Language)
	assert.Equal(t, domain.LanguageArabic, conv.Language())

	assert.ErrorIs(t, conv.SetLanguage("de"), domain.ErrUnsupportedLanguage)
	assert.Equal(t, domain.LanguageArabic, conv.Language())
}

func TestMessageIDsAreUnique(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		conv.AppendUserMessage("x")
	}
	seen := make(map[string]bool)
	for _, m := range conv.Messages() {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

func TestTryBeginReplyIsSingleFlight(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)

	require.True(t, conv.TryBeginReply())
	assert.False(t, conv.TryBeginReply())
	assert.True(t, conv.Replying())

	conv.EndReply()
	assert.False(t, conv.Replying())
	assert.True(t, conv.TryBeginReply())
}

func TestTryBeginReplyConcurrent(t *testing.T) {
	conv, err := NewConversation(domain.LanguageFrench)
	require.NoError(t, err)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if conv.TryBeginReply() {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, won)
}

func TestLastActivityAdvancesOnAppend(t *testing.T) {
	clock := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	conv, err := newConversation(domain.LanguageFrench, now)
	require.NoError(t, err)
	assert.Equal(t, clock, conv.LastActivity())

	clock = clock.Add(time.Minute)
	conv.AppendUserMessage("salut")
	assert.Equal(t, clock, conv.LastActivity())
	assert.Equal(t, clock, conv.Messages()[1].Timestamp)
}
