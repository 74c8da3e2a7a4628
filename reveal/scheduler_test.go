package reveal_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"serenity-chat/domain/event"
	"serenity-chat/reveal"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// recordingTarget stands in for the conversation store.
type recordingTarget struct {
	mu        sync.Mutex
	present   bool
	prefixes  []string
	completed []int64
}

func (t *recordingTarget) ApplyReveal(_ int64, prefix string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.present {
		return false
	}
	t.prefixes = append(t.prefixes, prefix)
	return true
}

func (t *recordingTarget) CompleteMessage(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.present {
		return false
	}
	t.completed = append(t.completed, id)
	return len(t.completed) == 1
}

func (t *recordingTarget) snapshot() ([]string, []int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.prefixes...), append([]int64(nil), t.completed...)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []event.ConversationEvent
}

func (r *eventRecorder) publish(_ context.Context, e event.ConversationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) completions() []event.ReplyCompleted {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.ReplyCompleted
	for _, e := range r.events {
		if c, ok := e.(event.ReplyCompleted); ok {
			out = append(out, c)
		}
	}
	return out
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reveal did not finish in time")
	}
}

func TestScheduler_RevealsFullText(t *testing.T) {
	req := require.New(t)
	target := &recordingTarget{present: true}
	recorder := &eventRecorder{}
	fullText := "Hello! How are you feeling today?"

	s := reveal.NewScheduler(target, recorder.publish, time.Millisecond, 3, testLogger)
	waitDone(t, s.Start(context.Background(), 42, fullText))

	prefixes, completed := target.snapshot()
	req.Equal([]int64{42}, completed)

	// Every intermediate update is a prefix and lengths never decrease
	last := 0
	for _, p := range prefixes {
		req.True(strings.HasPrefix(fullText, p), "%q is not a prefix of the full text", p)
		req.GreaterOrEqual(len(p), last)
		last = len(p)
	}

	completions := recorder.completions()
	req.Len(completions, 1)
	req.Equal(fullText, completions[0].Content)

	// Idempotent terminal state: no further ticks after completion
	time.Sleep(20 * time.Millisecond)
	after, _ := target.snapshot()
	req.Equal(len(prefixes), len(after))
}

func TestScheduler_EmptyTextStillCompletes(t *testing.T) {
	req := require.New(t)
	target := &recordingTarget{present: true}
	recorder := &eventRecorder{}

	s := reveal.NewScheduler(target, recorder.publish, time.Millisecond, 3, testLogger)
	waitDone(t, s.Start(context.Background(), 7, ""))

	prefixes, completed := target.snapshot()
	req.Empty(prefixes)
	req.Equal([]int64{7}, completed)
	req.Len(recorder.completions(), 1)
}

func TestScheduler_Cancel(t *testing.T) {
	req := require.New(t)
	target := &recordingTarget{present: true}
	recorder := &eventRecorder{}
	longText := strings.Repeat("calm breathing ", 200)

	s := reveal.NewScheduler(target, recorder.publish, 5*time.Millisecond, 1, testLogger)
	done := s.Start(context.Background(), 9, longText)

	time.Sleep(15 * time.Millisecond)
	s.Cancel(9)
	waitDone(t, done)

	_, completed := target.snapshot()
	req.Empty(completed, "a cancelled reveal must not complete the message")
	req.Empty(recorder.completions())

	// Cancelling again is a no-op
	s.Cancel(9)
}

func TestScheduler_StopsWhenTargetGone(t *testing.T) {
	req := require.New(t)
	target := &recordingTarget{present: false}
	recorder := &eventRecorder{}

	s := reveal.NewScheduler(target, recorder.publish, time.Millisecond, 2, testLogger)
	waitDone(t, s.Start(context.Background(), 5, "some reply text"))

	prefixes, completed := target.snapshot()
	req.Empty(prefixes)
	req.Empty(completed)
	req.Empty(recorder.completions())
}
