package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"serenity-chat/contract"
	"serenity-chat/domain"
	"serenity-chat/domain/event"
	"serenity-chat/observability"
)

// apologyReply closes the placeholder when the reply path itself failed,
// so the UI never shows a permanently stalled message.
const apologyReply = "I apologize, but I'm experiencing technical difficulties right now. " +
	"Please try again later."

// Conversation is the slice of the store the reply worker mutates.
type Conversation interface {
	AppendUserMessage(text string) (int64, error)
	AppendPendingBotMessage() int64
	SetFullText(id int64, text string) bool
	SetAwaiting(v bool)
}

// Revealer hands a resolved reply over to the reveal scheduler.
type Revealer interface {
	Start(ctx context.Context, id int64, fullText string) <-chan struct{}
}

type Publisher func(ctx context.Context, e event.ConversationEvent)

// ReplyWorker consumes send commands one at a time. Processing a single
// command per loop iteration is what guarantees that a second send issued
// back-to-back waits until the first reply is complete.
type ReplyWorker struct {
	log      *slog.Logger
	store    Conversation
	revealer Revealer
	client   contract.ReplyClient
	commands <-chan domain.SendCommand
	publish  Publisher
	stats    *observability.Stats
}

func NewReplyWorker(log *slog.Logger, store Conversation, revealer Revealer,
	client contract.ReplyClient, commands <-chan domain.SendCommand,
	publish Publisher, stats *observability.Stats) *ReplyWorker {
	return &ReplyWorker{
		log:      log,
		store:    store,
		revealer: revealer,
		client:   client,
		commands: commands,
		publish:  publish,
		stats:    stats,
	}
}

func (w *ReplyWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping reply worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Command channel closed")
				return nil
			}
			if err := w.process(ctx, cmd); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.log.Error("Send processing failed", "error", err)
			}
		}
	}
}

func (w *ReplyWorker) process(ctx context.Context, cmd domain.SendCommand) error {
	userID, err := w.store.AppendUserMessage(cmd.Text)
	if err != nil {
		return err
	}
	w.stats.IncrMessagesSent()
	w.publish(ctx, event.UserMessageAppended{ID: userID, Content: cmd.Text, At: cmd.CreatedAt})

	// The placeholder goes in before the remote call resolves so the
	// typing indicator is visible immediately.
	w.store.SetAwaiting(true)
	botID := w.store.AppendPendingBotMessage()
	w.publish(ctx, event.BotMessagePending{ID: botID, At: time.Now().UTC()})

	fullText, failure := w.resolve(ctx, cmd.Text)
	if failure != nil {
		w.publish(ctx, event.SendFailed{ID: botID, Reason: failure.Error()})
		fullText = apologyReply
	}
	w.store.SetFullText(botID, fullText)

	select {
	case <-w.revealer.Start(ctx, botID, fullText):
	case <-ctx.Done():
		return ctx.Err()
	}
	if ctx.Err() != nil {
		// Teardown mid-reveal: the ticker was cancelled, nothing completed.
		return ctx.Err()
	}
	w.stats.IncrRepliesCompleted()

	// Surfaced once the degraded reply has been shown in full.
	if notice, ok := w.client.ConsumeAdvisory(); ok {
		w.stats.IncrAdvisoriesRaised()
		w.publish(ctx, event.AdvisoryRaised{ID: botID, Notice: notice})
	}
	return nil
}

// resolve shields the pipeline from anything escaping the reply path.
// The client already absorbs remote failures; this catches the rest.
func (w *ReplyWorker) resolve(ctx context.Context, text string) (reply string, failure error) {
	defer func() {
		if r := recover(); r != nil {
			failure = fmt.Errorf("reply resolution panic: %v", r)
		}
	}()
	return w.client.GetReply(ctx, text), nil
}
