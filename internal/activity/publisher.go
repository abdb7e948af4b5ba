package activity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"statusline/pkg/domain"
	"statusline/pkg/requestcontext"
)

// Store persists the activity feed.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByProject(ctx context.Context, projectID domain.ProjectID, limit int) ([]Event, error)
}

// Sink receives a copy of every event after it is stored.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher records lifecycle events. It is append-only: the store keeps the
// feed, sinks get a copy.
type Publisher struct {
	store  Store
	sinks  []Sink
	logger *slog.Logger
}

type Option func(*Publisher)

func WithSink(sink Sink) Option {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps the event with an id, the request id and the request time when
// missing, appends it to the store and hands it to every sink. A sink failure
// is reported but does not undo the append.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx).UTC()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		return err
	}

	if len(p.sinks) == 0 {
		return nil
	}
	errs := make([]error, len(p.sinks))
	var g errgroup.Group
	for i, sink := range p.sinks {
		i, sink := i, sink
		g.Go(func() error {
			errs[i] = sink.Publish(ctx, event)
			return nil
		})
	}
	_ = g.Wait()
	if err := errors.Join(errs...); err != nil {
		p.logger.WarnContext(ctx, "activity sink failed",
			"event_id", event.ID,
			"project_id", event.ProjectID,
			"error", err,
		)
		return err
	}
	return nil
}

// List returns the newest events for a project first.
func (p *Publisher) List(ctx context.Context, projectID domain.ProjectID, limit int) ([]Event, error) {
	return p.store.ListByProject(ctx, projectID, limit)
}
