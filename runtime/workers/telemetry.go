package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"serenity-chat/observability"
)

// TelemetryWorker logs self health metrics (CPU, RAM, status) and the
// pipeline counters on a fixed interval.
type TelemetryWorker struct {
	log      *slog.Logger
	stats    *observability.Stats
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, stats *observability.Stats,
	interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, stats: stats, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting telemetry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			latest := w.stats.GetLatest()
			w.log.Info("Telemetry",
				"pid_status", status,
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"requests_served", latest.RequestsServed,
				"upstream_failures", latest.UpstreamFailures,
				"fallbacks_used", latest.FallbacksUsed,
			)
		}
	}
}

// selfStats retrieves technical metrics (Memory, CPU, and OS status) for the process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
