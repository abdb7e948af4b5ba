package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSinkRejectsWhenFull(t *testing.T) {
	queue := make(chan Event, 1)
	sink := NewQueueSink(queue)

	require.NoError(t, sink.Publish(context.Background(), Event{ID: "e1"}))
	assert.ErrorIs(t, sink.Publish(context.Background(), Event{ID: "e2"}), ErrQueueFull)
}

func TestWorkerDrainsUntilClosed(t *testing.T) {
	queue := make(chan Event, 3)
	out := &recordingSink{err: errors.New("first delivery fails")}
	worker := NewWorker(out, queue, discardLogger())

	queue <- Event{ID: "e1"}
	queue <- Event{ID: "e2"}
	close(queue)

	require.NoError(t, worker.Run(context.Background()))
	assert.Equal(t, []string{"e1", "e2"}, ids(out.events))
}

func TestWorkerStopsOnCancel(t *testing.T) {
	queue := make(chan Event)
	worker := NewWorker(&recordingSink{}, queue, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
