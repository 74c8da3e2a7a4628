// Package projection builds local read models from observed events.
// Handles ordering only; it does not emit events or render anything.
package projection

import (
	"context"
	"sync"

	"serenity-chat/domain"
	"serenity-chat/domain/event"
)

// Transcript is an event-sourced copy of the conversation, kept for the
// exit summary and for tests that assert on the observable message flow.
type Transcript struct {
	mu       sync.Mutex
	messages []domain.Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Consume(_ context.Context, e event.ConversationEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch evt := e.(type) {
	case event.UserMessageAppended:
		t.messages = append(t.messages, domain.Message{
			ID:        evt.ID,
			Role:      domain.RoleUser,
			Displayed: evt.Content,
			FullText:  evt.Content,
			Complete:  true,
			CreatedAt: evt.At,
		})
	case event.BotMessagePending:
		t.messages = append(t.messages, domain.Message{
			ID:        evt.ID,
			Role:      domain.RoleBot,
			CreatedAt: evt.At,
		})
	case event.ReplyRevealed:
		if i, ok := t.index(evt.ID); ok && !t.messages[i].Complete {
			t.messages[i].Displayed = evt.Displayed
		}
	case event.ReplyCompleted:
		if i, ok := t.index(evt.ID); ok {
			t.messages[i].Displayed = evt.Content
			t.messages[i].FullText = evt.Content
			t.messages[i].Complete = true
		}
	}
	return nil
}

// Messages returns a copy of the projected conversation in event order.
func (t *Transcript) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) index(id int64) (int, bool) {
	for i := range t.messages {
		if t.messages[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
