//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"serenity-chat/domain/event"
)

// Worker doesn't protect itself from panics; the supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives conversation lifecycle events.
// A slow sink must not be able to wedge the pipeline; the caller
// bounds each Consume with a timeout.
type EventSink interface {
	Consume(ctx context.Context, e event.ConversationEvent) error
}

// Responder produces a local reply when the remote service cannot.
type Responder interface {
	Respond(userText string) string
}

// ReplyClient resolves the full reply text for a user submission.
// It never fails: degraded calls resolve to a Responder reply and
// leave a one-shot advisory behind.
type ReplyClient interface {
	GetReply(ctx context.Context, userText string) string
	ConsumeAdvisory() (string, bool)
}
