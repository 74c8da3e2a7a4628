// Package domain contains core concepts of the conversation.
// Messages are append-only: once stored they are never reordered or removed.
package domain

import (
	"time"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one entry of the conversation.
// Displayed grows towards FullText while a bot reply is being revealed;
// for user messages the two are always equal.
type Message struct {
	ID        int64
	Role      Role
	Displayed string
	FullText  string
	Complete  bool
	CreatedAt time.Time
}

// Pending reports whether the message is a placeholder waiting for its reply text.
func (m Message) Pending() bool {
	return !m.Complete && m.FullText == ""
}

// Revealing reports whether the message knows its full text but is still mid-reveal.
func (m Message) Revealing() bool {
	return !m.Complete && m.FullText != ""
}
