package domain

import (
	"time"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation entry. It is never modified after creation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Language  Language  `json:"language"`
}

// Turn is a role-tagged message as sent to the completion endpoint.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role maps the sender onto the completion API role.
func (s Sender) Role() Role {
	if s == SenderUser {
		return RoleUser
	}
	return RoleAssistant
}

// Turn converts the message for transmission.
func (m Message) Turn() Turn {
	return Turn{Role: m.Sender.Role(), Content: m.Text}
}
