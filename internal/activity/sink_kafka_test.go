package activity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func TestKafkaSinkKeysByProject(t *testing.T) {
	producer := &fakeProducer{}
	sink := NewKafkaSink(producer, "statusline.activity")
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	event := Event{ID: "e1", ProjectID: "c1", Entity: EntityDecision, EntityID: "d1",
		Action: ActionStatusChanged, FromStatus: "PENDING", ToStatus: "DECIDED", Timestamp: at}
	require.NoError(t, sink.Publish(context.Background(), event))

	require.Len(t, producer.records, 1)
	record := producer.records[0]
	assert.Equal(t, "statusline.activity", record.Topic)
	assert.Equal(t, []byte("c1"), record.Key)
	assert.Equal(t, at, record.Timestamp)
	assert.Equal(t, []kgo.RecordHeader{
		{Key: "entity", Value: []byte("decision")},
		{Key: "action", Value: []byte("status_changed")},
	}, record.Headers)

	var decoded Event
	require.NoError(t, json.Unmarshal(record.Value, &decoded))
	assert.Equal(t, "DECIDED", decoded.ToStatus)
}

func TestKafkaSinkProduceError(t *testing.T) {
	sink := NewKafkaSink(&fakeProducer{err: errors.New("not leader")}, "t")
	err := sink.Publish(context.Background(), Event{ProjectID: "c1"})
	assert.ErrorContains(t, err, "produce activity event")
}
