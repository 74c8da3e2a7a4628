package runtime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"serenity-chat/contract"
	"serenity-chat/domain"
	"serenity-chat/domain/event"
	"serenity-chat/errors"
	"serenity-chat/observability"
	"serenity-chat/reveal"
	"serenity-chat/runtime/workers"
)

// Orchestrator wires the store, the reply client, and the reveal scheduler,
// and fans conversation events out to the registered sinks.
// Sends go through a buffered command channel consumed by a single supervised
// reply worker, so only one reveal is ever active.
type Orchestrator struct {
	log         *slog.Logger
	store       *Store
	scheduler   *reveal.Scheduler
	replyClient contract.ReplyClient
	supervisor  *workers.Supervisor
	sinks       []contract.EventSink
	commands    chan domain.SendCommand
	sinkTimeout time.Duration
	stats       *observability.Stats
}

type Options struct {
	RevealInterval time.Duration
	RevealStep     int
	BufferSize     int
	SinkTimeout    time.Duration
}

func NewOrchestrator(log *slog.Logger, store *Store, replyClient contract.ReplyClient,
	stats *observability.Stats, opts Options) *Orchestrator {
	o := &Orchestrator{
		log:         log,
		store:       store,
		replyClient: replyClient,
		supervisor:  workers.NewSupervisor(log),
		commands:    make(chan domain.SendCommand, opts.BufferSize),
		sinkTimeout: opts.SinkTimeout,
		stats:       stats,
	}
	o.scheduler = reveal.NewScheduler(store, o.publish, opts.RevealInterval, opts.RevealStep, log)
	return o
}

// Add registers sinks. Must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.sinks = append(o.sinks, sinks...)
}

// BeginReply validates and enqueues one send. The command channel buffers
// back-to-back sends; the reply worker drains them strictly in order.
func (o *Orchestrator) BeginReply(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.ErrEmptyMessage
	}

	cmd := domain.SendCommand{Text: text, CreatedAt: time.Now().UTC()}
	select {
	case o.commands <- cmd:
		return nil
	default:
		o.log.Warn("Send queue full, dropping command")
		return errors.ErrQueueFull
	}
}

// Start runs the supervised reply worker and blocks until shutdown.
func (o *Orchestrator) Start(ctx context.Context) error {
	replyWorker := workers.NewReplyWorker(
		o.log, o.store, o.scheduler, o.replyClient, o.commands, o.publish, o.stats)

	o.supervisor.Add(replyWorker)
	o.log.Info("Starting orchestrator and supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervision context; in-flight reveals stop with it.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}

// CancelReveal aborts the reveal of a given message without completing it.
// Used on view teardown, not exposed as a user action.
func (o *Orchestrator) CancelReveal(id int64) {
	o.scheduler.Cancel(id)
}

func (o *Orchestrator) Snapshot() []domain.Message {
	return o.store.Snapshot()
}

func (o *Orchestrator) IsAwaitingReply() bool {
	return o.store.IsAwaitingReply()
}

// publish delivers one event to every sink, each bounded by the sink timeout
// so a stuck consumer cannot wedge the reveal ticker.
func (o *Orchestrator) publish(ctx context.Context, e event.ConversationEvent) {
	for _, sink := range o.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, o.sinkTimeout)
		if err := sink.Consume(sinkCtx, e); err != nil {
			o.log.Error("Sink rejected event", "error", err)
		}
		cancel()
	}
}
