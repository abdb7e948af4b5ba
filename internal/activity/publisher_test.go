package activity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statusline/pkg/requestcontext"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherStampsEvents(t *testing.T) {
	store := NewInMemoryStore(10)
	sink := &recordingSink{}
	p := NewPublisher(store, WithSink(sink), WithLogger(discardLogger()))

	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(requestcontext.WithRequestID(context.Background(), "req-7"), now)
	require.NoError(t, p.Emit(ctx, Event{ProjectID: "c1", Entity: EntityRisk, EntityID: "r1", Action: ActionCreated}))

	events, err := p.List(ctx, "c1", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, "req-7", events[0].RequestID)
	assert.True(t, now.Equal(events[0].Timestamp))

	require.Len(t, sink.events, 1)
	assert.Equal(t, events[0].ID, sink.events[0].ID)
}

func TestPublisherSinkFailureKeepsTheAppend(t *testing.T) {
	store := NewInMemoryStore(10)
	p := NewPublisher(store,
		WithSink(&recordingSink{err: errors.New("broker down")}),
		WithSink(&recordingSink{}),
		WithLogger(discardLogger()),
	)

	err := p.Emit(context.Background(), Event{ProjectID: "c1", Action: ActionUpdated})
	assert.ErrorContains(t, err, "broker down")

	events, err := p.List(context.Background(), "c1", 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestWithSinkIgnoresNil(t *testing.T) {
	p := NewPublisher(NewInMemoryStore(1), WithSink(nil))
	assert.Empty(t, p.sinks)
}
