// Package reveal simulates the progressive display of an already-known reply.
// The scheduler is independent of any UI loop so ticks can be driven fast in tests.
package reveal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"serenity-chat/domain/event"
)

// Target is the store the scheduler writes partial text into.
// Both methods report false when the message is gone or already complete,
// which stops the ticker.
type Target interface {
	ApplyReveal(id int64, prefix string) bool
	CompleteMessage(id int64) bool
}

// Publisher delivers scheduler events to the registered sinks.
type Publisher func(ctx context.Context, e event.ConversationEvent)

type Scheduler struct {
	target   Target
	publish  Publisher
	interval time.Duration
	step     int
	log      *slog.Logger

	mu     sync.Mutex
	active map[int64]context.CancelFunc
}

// NewScheduler advances the displayed text by step runes every interval.
func NewScheduler(target Target, publish Publisher, interval time.Duration, step int,
	log *slog.Logger) *Scheduler {
	if step < 1 {
		step = 1
	}
	return &Scheduler{
		target:   target,
		publish:  publish,
		interval: interval,
		step:     step,
		log:      log,
		active:   make(map[int64]context.CancelFunc),
	}
}

// Start drives the target message from empty to fullText, then marks it
// complete and emits ReplyCompleted exactly once. The returned channel is
// closed when the reveal finishes or is cancelled.
func (s *Scheduler) Start(ctx context.Context, id int64, fullText string) <-chan struct{} {
	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.active[id] = cancel
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer s.release(id)
		s.run(runCtx, id, fullText)
	}()
	return done
}

// Cancel stops an in-flight reveal. Idempotent; unknown ids are ignored.
func (s *Scheduler) Cancel(id int64) {
	s.mu.Lock()
	cancel, ok := s.active[id]
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *Scheduler) release(id int64) {
	s.mu.Lock()
	if cancel, ok := s.active[id]; ok {
		cancel()
		delete(s.active, id)
	}
	s.mu.Unlock()
}

func (s *Scheduler) run(ctx context.Context, id int64, fullText string) {
	runes := []rune(fullText)

	// An empty reply still has to complete and notify.
	if len(runes) == 0 {
		s.finish(ctx, id, fullText)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	cursor := 0
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Reveal cancelled", "id", id)
			return
		case <-ticker.C:
			cursor += s.step
			if cursor >= len(runes) {
				s.finish(ctx, id, fullText)
				return
			}
			prefix := string(runes[:cursor])
			if !s.target.ApplyReveal(id, prefix) {
				// Target removed or closed under us; stop updating.
				s.log.Debug("Reveal target gone", "id", id)
				return
			}
			s.publish(ctx, event.ReplyRevealed{ID: id, Displayed: prefix})
		}
	}
}

func (s *Scheduler) finish(ctx context.Context, id int64, fullText string) {
	if !s.target.CompleteMessage(id) {
		return
	}
	s.publish(ctx, event.ReplyCompleted{ID: id, Content: fullText, At: time.Now().UTC()})
}
