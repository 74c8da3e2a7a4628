package runtime_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"serenity-chat/domain"
	"serenity-chat/domain/event"
	"serenity-chat/errors"
	"serenity-chat/mocks"
	"serenity-chat/observability"
	"serenity-chat/runtime"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// captureSink records every event and signals reply completions.
type captureSink struct {
	mu        sync.Mutex
	events    []event.ConversationEvent
	completed chan event.ReplyCompleted
}

func newCaptureSink() *captureSink {
	return &captureSink{completed: make(chan event.ReplyCompleted, 8)}
}

func (s *captureSink) Consume(_ context.Context, e event.ConversationEvent) error {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	if c, ok := e.(event.ReplyCompleted); ok {
		s.completed <- c
	}
	return nil
}

func (s *captureSink) advisories() []event.AdvisoryRaised {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []event.AdvisoryRaised
	for _, e := range s.events {
		if a, ok := e.(event.AdvisoryRaised); ok {
			out = append(out, a)
		}
	}
	return out
}

func waitCompleted(t *testing.T, sink *captureSink) event.ReplyCompleted {
	t.Helper()
	select {
	case c := <-sink.completed:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no reply completed in time")
		return event.ReplyCompleted{}
	}
}

func fastOptions() runtime.Options {
	return runtime.Options{
		RevealInterval: time.Millisecond,
		RevealStep:     10,
		BufferSize:     4,
		SinkTimeout:    time.Second,
	}
}

func TestOrchestrator_SendToCompletion(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockReplyClient(ctrl)
	client.EXPECT().GetReply(gomock.Any(), "hello").Return("Hi there")
	client.EXPECT().ConsumeAdvisory().Return("", false)

	store := runtime.NewStore(welcome)
	o := runtime.NewOrchestrator(testLogger, store, client, observability.NewStats(), fastOptions())
	sink := newCaptureSink()
	o.Add(sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = o.Start(ctx) }()

	req.NoError(o.BeginReply("hello"))
	completed := waitCompleted(t, sink)
	req.Equal("Hi there", completed.Content)

	messages := o.Snapshot()
	req.Len(messages, 3)
	req.Equal(domain.RoleUser, messages[1].Role)
	req.Equal("hello", messages[1].Displayed)
	req.Equal(domain.RoleBot, messages[2].Role)
	req.True(messages[2].Complete)
	req.Equal("Hi there", messages[2].Displayed)
	req.False(o.IsAwaitingReply())
	req.Empty(sink.advisories())
}

func TestOrchestrator_AdvisoryReachesSinks(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notice := "Could not reach the AI service. Using fallback response."
	client := mocks.NewMockReplyClient(ctrl)
	client.EXPECT().GetReply(gomock.Any(), "hey").Return("fallback reply")
	client.EXPECT().ConsumeAdvisory().Return(notice, true)

	store := runtime.NewStore(welcome)
	o := runtime.NewOrchestrator(testLogger, store, client, observability.NewStats(), fastOptions())
	sink := newCaptureSink()
	o.Add(sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = o.Start(ctx) }()

	req.NoError(o.BeginReply("hey"))
	waitCompleted(t, sink)

	// The advisory only fires after the reveal finished.
	req.Eventually(func() bool {
		raised := sink.advisories()
		return len(raised) == 1 && raised[0].Notice == notice
	}, 2*time.Second, 5*time.Millisecond)
}

func TestOrchestrator_BeginReplyValidation(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockReplyClient(ctrl)
	store := runtime.NewStore(welcome)
	o := runtime.NewOrchestrator(testLogger, store, client, observability.NewStats(), fastOptions())

	// Blank sends never enter the queue
	req.ErrorIs(o.BeginReply(""), errors.ErrEmptyMessage)
	req.ErrorIs(o.BeginReply("   \t"), errors.ErrEmptyMessage)
	req.Equal(1, store.Len())
}

func TestOrchestrator_QueueFull(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockReplyClient(ctrl)
	opts := fastOptions()
	opts.BufferSize = 1

	// No worker is draining, so the second send overflows the buffer.
	o := runtime.NewOrchestrator(testLogger, runtime.NewStore(welcome), client,
		observability.NewStats(), opts)
	req.NoError(o.BeginReply("first"))
	req.ErrorIs(o.BeginReply("second"), errors.ErrQueueFull)
}

func TestOrchestrator_QueuedSendsCompleteInOrder(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockReplyClient(ctrl)
	client.EXPECT().GetReply(gomock.Any(), "first").Return("reply one")
	client.EXPECT().GetReply(gomock.Any(), "second").Return("reply two")
	client.EXPECT().ConsumeAdvisory().Return("", false).Times(2)

	store := runtime.NewStore(welcome)
	o := runtime.NewOrchestrator(testLogger, store, client, observability.NewStats(), fastOptions())
	sink := newCaptureSink()
	o.Add(sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = o.Start(ctx) }()

	// Back-to-back sends queue; the second waits for the first reveal.
	req.NoError(o.BeginReply("first"))
	req.NoError(o.BeginReply("second"))

	a := waitCompleted(t, sink)
	b := waitCompleted(t, sink)
	req.Equal("reply one", a.Content)
	req.Equal("reply two", b.Content)

	messages := o.Snapshot()
	req.Len(messages, 5)
	for _, m := range messages {
		req.True(m.Complete)
	}
}
