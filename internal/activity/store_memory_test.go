package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreCapsAndOrders(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(3)
	for _, id := range []string{"e1", "e2", "e3", "e4"} {
		require.NoError(t, store.Append(ctx, Event{ID: id, ProjectID: "c1"}))
	}
	require.NoError(t, store.Append(ctx, Event{ID: "x1", ProjectID: "c2"}))

	events, err := store.ListByProject(ctx, "c1", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e3", "e2"}, ids(events))

	events, err = store.ListByProject(ctx, "c1", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"e4"}, ids(events))

	events, err = store.ListByProject(ctx, "c1", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func ids(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
