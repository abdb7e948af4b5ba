package activity

import (
	"context"
	"errors"
	"log/slog"

	"statusline/pkg/platform/circuit"
)

// ErrCircuitOpen is returned while the downstream sink is being skipped.
var ErrCircuitOpen = errors.New("activity sink circuit open")

// BreakerSink guards a sink with a circuit breaker so a dead broker does not
// stall the worker on every event.
type BreakerSink struct {
	sink    Sink
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewBreakerSink(sink Sink, breaker *circuit.Breaker, logger *slog.Logger) *BreakerSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakerSink{sink: sink, breaker: breaker, logger: logger}
}

func (b *BreakerSink) Publish(ctx context.Context, event Event) error {
	if !b.breaker.Allow() {
		return ErrCircuitOpen
	}
	if err := b.sink.Publish(ctx, event); err != nil {
		if _, change := b.breaker.RecordFailure(); change.Opened {
			b.logger.WarnContext(ctx, "activity sink circuit opened", "circuit", b.breaker.Name(), "error", err)
		}
		return err
	}
	if _, change := b.breaker.RecordSuccess(); change.Closed {
		b.logger.InfoContext(ctx, "activity sink circuit closed", "circuit", b.breaker.Name())
	}
	return nil
}
