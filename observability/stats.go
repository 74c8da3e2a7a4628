// Package observability aggregates runtime counters for logging and telemetry.
package observability

import (
	"sync/atomic"
)

// Stats holds the pipeline counters. All methods are safe for concurrent use.
type Stats struct {
	messagesSent     uint64
	repliesCompleted uint64
	fallbacksUsed    uint64
	advisoriesRaised uint64
	requestsServed   uint64
	upstreamFailures uint64
}

// Snapshot is a consistent copy of the counters.
type Snapshot struct {
	MessagesSent     uint64
	RepliesCompleted uint64
	FallbacksUsed    uint64
	AdvisoriesRaised uint64
	RequestsServed   uint64
	UpstreamFailures uint64
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) IncrMessagesSent()     { atomic.AddUint64(&s.messagesSent, 1) }
func (s *Stats) IncrRepliesCompleted() { atomic.AddUint64(&s.repliesCompleted, 1) }
func (s *Stats) IncrFallbacksUsed()    { atomic.AddUint64(&s.fallbacksUsed, 1) }
func (s *Stats) IncrAdvisoriesRaised() { atomic.AddUint64(&s.advisoriesRaised, 1) }
func (s *Stats) IncrRequestsServed()   { atomic.AddUint64(&s.requestsServed, 1) }
func (s *Stats) IncrUpstreamFailures() { atomic.AddUint64(&s.upstreamFailures, 1) }

func (s *Stats) GetLatest() Snapshot {
	return Snapshot{
		MessagesSent:     atomic.LoadUint64(&s.messagesSent),
		RepliesCompleted: atomic.LoadUint64(&s.repliesCompleted),
		FallbacksUsed:    atomic.LoadUint64(&s.fallbacksUsed),
		AdvisoriesRaised: atomic.LoadUint64(&s.advisoriesRaised),
		RequestsServed:   atomic.LoadUint64(&s.requestsServed),
		UpstreamFailures: atomic.LoadUint64(&s.upstreamFailures),
	}
}
