package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chr1sbest/ironrun/internal/logger"
	"github.com/chr1sbest/ironrun/internal/resilience"
	"github.com/chr1sbest/ironrun/internal/runstate"
)

// Exporter is a runstate.Observer that writes the latest snapshot, its
// progress and the session metrics to a Writer. Observe never blocks on
// I/O: bursts of transitions coalesce and only the newest snapshot is
// written.
type Exporter struct {
	writer *Writer
	log    logger.Logger
	policy resilience.RetryPolicy
	now    func() time.Time

	mu      sync.Mutex
	state   runstate.RunState
	seq     uint64
	metrics SessionMetrics
	dirty   bool

	kick chan struct{}
	done chan struct{}
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

func WithExportLogger(l logger.Logger) ExporterOption {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

func WithExportPolicy(p resilience.RetryPolicy) ExporterOption {
	return func(e *Exporter) { e.policy = p }
}

func WithExportClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExporter creates an exporter whose first write mirrors the default,
// not-yet-started state.
func NewExporter(w *Writer, sessionID string, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		writer: w,
		log:    logger.NewNoopLogger(),
		policy: resilience.ExportRetry,
		now:    time.Now,
		state:  runstate.Default(),
		dirty:  true,
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.metrics = NewSessionMetrics(sessionID, e.now())
	e.policy = e.policy.WithCallback(func(attempt int, err error, next time.Duration) {
		e.log.Warn("export write failed, retrying",
			logger.F("attempt", attempt),
			logger.F("error", err.Error()),
			logger.F("next_delay", next.String()))
	})
	return e
}

// Observe records t and schedules a write.
func (e *Exporter) Observe(t runstate.Transition) {
	e.mu.Lock()
	e.metrics.Record(t, e.now())
	if t.Seq > e.seq {
		e.seq = t.Seq
		e.state = t.State.Clone()
	}
	e.dirty = true
	e.mu.Unlock()

	select {
	case e.kick <- struct{}{}:
	default:
	}
}

// Run writes pending snapshots until ctx is cancelled, then writes once
// more so the files reflect the final state.
func (e *Exporter) Run(ctx context.Context) {
	defer close(e.done)

	if err := e.Flush(ctx); err != nil {
		e.log.Error("initial export failed", logger.F("error", err.Error()))
	}
	for {
		select {
		case <-ctx.Done():
			if err := e.Flush(context.WithoutCancel(ctx)); err != nil {
				e.log.Error("final export failed", logger.F("error", err.Error()))
			}
			return
		case <-e.kick:
			if err := e.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.log.Error("export failed", logger.F("dir", e.writer.Dir), logger.F("error", err.Error()))
			}
		}
	}
}

// Done is closed once Run has returned.
func (e *Exporter) Done() <-chan struct{} {
	return e.done
}

// Flush writes the newest snapshot if anything changed since the last
// successful write. A failed write leaves the exporter dirty so the next
// transition tries again.
func (e *Exporter) Flush(ctx context.Context) error {
	e.mu.Lock()
	if !e.dirty {
		e.mu.Unlock()
		return nil
	}
	state := e.state.Clone()
	metrics := e.metrics
	e.dirty = false
	e.mu.Unlock()

	err := e.policy.Execute(ctx, func(context.Context) error {
		if err := e.writer.WriteRunState(state); err != nil {
			return err
		}
		if err := e.writer.WriteProgress(runstate.ProgressOf(state)); err != nil {
			return err
		}
		return e.writer.WriteMetrics(metrics)
	})
	if err != nil {
		e.mu.Lock()
		e.dirty = true
		e.mu.Unlock()
		return err
	}
	return nil
}
