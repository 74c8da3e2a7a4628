// Package event defines the conversation lifecycle events consumed by sinks.
package event

import (
	"time"
)

type ConversationEvent interface {
	MessageID() int64
}

// UserMessageAppended fires after a non-blank submission has been stored.
type UserMessageAppended struct {
	ID      int64
	Content string
	At      time.Time
}

func (e UserMessageAppended) MessageID() int64 { return e.ID }

// BotMessagePending fires when the empty placeholder is stored,
// before the remote call resolves.
type BotMessagePending struct {
	ID int64
	At time.Time
}

func (e BotMessagePending) MessageID() int64 { return e.ID }

// ReplyRevealed carries one partial-text update of an ongoing reveal.
type ReplyRevealed struct {
	ID        int64
	Displayed string
}

func (e ReplyRevealed) MessageID() int64 { return e.ID }

// ReplyCompleted fires exactly once per completed bot reply.
type ReplyCompleted struct {
	ID      int64
	Content string
	At      time.Time
}

func (e ReplyCompleted) MessageID() int64 { return e.ID }

// AdvisoryRaised fires at most once per failed remote call,
// after the fallback text has been handed to the reveal path.
type AdvisoryRaised struct {
	ID     int64
	Notice string
}

func (e AdvisoryRaised) MessageID() int64 { return e.ID }

// SendFailed fires when the reply path itself broke down and the
// placeholder had to be closed with a generic apology.
type SendFailed struct {
	ID     int64
	Reason string
}

func (e SendFailed) MessageID() int64 { return e.ID }
