package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/swifthub/internal/domain"
)

// Conversation is the append-only transcript of one chat session.
// It always starts with an assistant greeting.
type Conversation struct {
	mu        sync.Mutex
	id        string
	language  domain.Language
	messages  []domain.Message
	createdAt time.Time
	updatedAt time.Time
	replying  bool
	now       func() time.Time
}

// NewConversation starts a session in lang and seeds the greeting.
func NewConversation(lang domain.Language) (*Conversation, error) {
	return newConversation(lang, time.Now)
}

func newConversation(lang domain.Language, now func() time.Time) (*Conversation, error) {
	if !lang.Valid() {
		return nil, domain.ErrUnsupportedLanguage
	}
	created := now()
	c := &Conversation{
		id:        uuid.NewString(),
		language:  lang,
		messages:  make([]domain.Message, 0, 16),
		createdAt: created,
		updatedAt: created,
		now:       now,
	}
	c.appendLocked(Greeting(lang), domain.SenderAssistant, lang)
	return c, nil
}

// ID is the conversation UUID, fixed at creation.
func (c *Conversation) ID() string {
	return c.id
}

// Language is the language tag given to new user messages.
func (c *Conversation) Language() domain.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// SetLanguage switches the active language. Stored messages keep their tags.
func (c *Conversation) SetLanguage(lang domain.Language) error {
	if !lang.Valid() {
		return domain.ErrUnsupportedLanguage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = lang
	return nil
}

// AppendUserMessage records text as a user message tagged with the active
// language. Blank input is ignored. The full transcript is returned.
func (c *Conversation) AppendUserMessage(text string) []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(text) != "" {
		c.appendLocked(text, domain.SenderUser, c.language)
	}
	return c.snapshotLocked()
}

// AppendAssistantMessage records a model reply or a fallback text.
func (c *Conversation) AppendAssistantMessage(text string, lang domain.Language) domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appendLocked(text, domain.SenderAssistant, lang)
}

// RecentWindow returns the last n messages as completion turns, oldest first.
func (c *Conversation) RecentWindow(n int) []domain.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 {
		return []domain.Turn{}
	}
	start := len(c.messages) - n
	if start < 0 {
		start = 0
	}
	turns := make([]domain.Turn, 0, len(c.messages)-start)
	for _, m := range c.messages[start:] {
		turns = append(turns, m.Turn())
	}
	return turns
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Len counts stored messages, greeting included.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// CreatedAt is when the conversation was initialized.
func (c *Conversation) CreatedAt() time.Time {
	return c.createdAt
}

// LastActivity is the time of the latest append.
func (c *Conversation) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}

// TryBeginReply marks a reply as in flight. It returns false if one already is,
// in which case the caller must not submit another request.
func (c *Conversation) TryBeginReply() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.replying {
		return false
	}
	c.replying = true
	return true
}

// EndReply clears the in-flight mark set by TryBeginReply.
func (c *Conversation) EndReply() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replying = false
}

// Replying reports whether a reply is in flight, between a successful
// TryBeginReply and its EndReply. While true the conversation must not be
// reset or evicted.
func (c *Conversation) Replying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replying
}

func (c *Conversation) appendLocked(text string, sender domain.Sender, lang domain.Language) domain.Message {
	ts := c.now()
	msg := domain.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: ts,
		Language:  lang,
	}
	c.messages = append(c.messages, msg)
	c.updatedAt = ts
	return msg
}

func (c *Conversation) snapshotLocked() []domain.Message {
	cp := make([]domain.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}
