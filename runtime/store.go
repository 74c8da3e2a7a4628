// Package runtime owns the conversation state and orchestrates the reply
// pipeline. It contains no rendering and no keyword logic.
package runtime

import (
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"serenity-chat/domain"
	"serenity-chat/errors"
)

// Store is the single mutable resource of the pipeline: an append-only,
// mutex-serialized list of messages. Transitions per bot message are
// strictly forward: Pending -> Revealing -> Complete.
type Store struct {
	mu       sync.Mutex
	messages []domain.Message
	nextID   int64
	awaiting bool
}

// NewStore seeds the conversation with one complete bot welcome message.
func NewStore(welcome string) *Store {
	s := &Store{nextID: time.Now().UnixMilli()}
	id := s.mint()
	s.messages = append(s.messages, domain.Message{
		ID:        id,
		Role:      domain.RoleBot,
		Displayed: welcome,
		FullText:  welcome,
		Complete:  true,
		CreatedAt: time.Now().UTC(),
	})
	return s
}

// mint must be called with the lock held (or before the store is shared).
func (s *Store) mint() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// AppendUserMessage stores a complete user message.
// Blank input is rejected before any message is created.
func (s *Store) AppendUserMessage(text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, errors.ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.mint()
	s.messages = append(s.messages, domain.Message{
		ID:        id,
		Role:      domain.RoleUser,
		Displayed: trimmed,
		FullText:  trimmed,
		Complete:  true,
		CreatedAt: time.Now().UTC(),
	})
	return id, nil
}

// AppendPendingBotMessage stores the empty placeholder the reveal will fill.
func (s *Store) AppendPendingBotMessage() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.mint()
	s.messages = append(s.messages, domain.Message{
		ID:        id,
		Role:      domain.RoleBot,
		CreatedAt: time.Now().UTC(),
	})
	return id
}

// SetFullText records the resolved reply on a pending message.
// Refused once the message is complete.
func (s *Store) SetFullText(id int64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok || s.messages[i].Complete {
		return false
	}
	s.messages[i].FullText = text
	return true
}

// ApplyReveal publishes a partial text. The update is dropped unless it is
// a prefix of the full text at least as long as what is already displayed,
// so Displayed never shrinks and never diverges from FullText.
func (s *Store) ApplyReveal(id int64, prefix string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok || s.messages[i].Complete {
		return false
	}
	m := s.messages[i]
	if !strings.HasPrefix(m.FullText, prefix) || len(prefix) < len(m.Displayed) {
		return false
	}
	s.messages[i].Displayed = prefix
	return true
}

// CompleteMessage closes a reveal: Displayed snaps to FullText and the
// awaiting flag is released. Returns true only on the first completion.
func (s *Store) CompleteMessage(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok || s.messages[i].Complete {
		return false
	}
	s.messages[i].Displayed = s.messages[i].FullText
	s.messages[i].Complete = true
	s.awaiting = false
	return true
}

func (s *Store) SetAwaiting(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaiting = v
}

// IsAwaitingReply is true from the moment a send is accepted until the
// corresponding bot message completes.
func (s *Store) IsAwaitingReply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// Get returns a copy of one message.
func (s *Store) Get(id int64) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok {
		return domain.Message{}, false
	}
	return s.messages[i], true
}

// Snapshot returns a consistent copy of the conversation in display order.
func (s *Store) Snapshot() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Map(s.messages, func(m domain.Message, _ int) domain.Message {
		return m
	})
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Store) index(id int64) (int, bool) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
