package activity

import (
	"context"
	"errors"
	"log/slog"
)

// ErrQueueFull is returned by QueueSink when the worker has fallen behind.
var ErrQueueFull = errors.New("activity queue full")

// QueueSink hands events to a Worker without blocking the request path.
type QueueSink struct {
	queue chan<- Event
}

func NewQueueSink(queue chan<- Event) *QueueSink {
	return &QueueSink{queue: queue}
}

func (q *QueueSink) Publish(ctx context.Context, event Event) error {
	select {
	case q.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Worker drains queued events into a slower sink such as Kafka. Delivery
// failures are logged and the event is dropped.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run delivers events until ctx is cancelled or the inbox is closed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			err := w.sink.Publish(ctx, event)
			if errors.Is(err, ErrCircuitOpen) {
				w.logger.DebugContext(ctx, "activity event dropped", "event_id", event.ID)
				continue
			}
			if err != nil {
				w.logger.ErrorContext(ctx, "activity delivery failed",
					"event_id", event.ID,
					"project_id", event.ProjectID,
					"error", err,
				)
			}
		}
	}
}
