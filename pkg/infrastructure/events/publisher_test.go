package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healsync/dispatch/pkg/application/dto"
	"github.com/healsync/dispatch/pkg/domain/entities"
)

type fakePublisher struct {
	name      string
	err       error
	published []Event
	closed    bool
}

func (f *fakePublisher) Name() string { return f.name }

func (f *fakePublisher) Publish(_ context.Context, e Event) error {
	f.published = append(f.published, e)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	closed   bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestMultiPublisher_DeliversToAllTransports(t *testing.T) {
	ok := &fakePublisher{name: "ok"}
	broken := &fakePublisher{name: "broken", err: errors.New("broker down")}
	multi := NewMultiPublisher(nil, broken, ok)

	err := multi.Publish(context.Background(), NewEvent(OrderFulfilledEvent, "run-1", nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: broker down")
	assert.Len(t, ok.published, 1)
	assert.Len(t, broken.published, 1)
	assert.Equal(t, 2, multi.Len())

	require.NoError(t, multi.Close())
	assert.True(t, ok.closed)
	assert.True(t, broken.closed)
}

func TestStorePublisher_AppendsUnderStream(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	pub := NewStorePublisher(store)
	multi := NewMultiPublisher(nil, pub)

	err := multi.PublishAll(context.Background(), []Event{
		NewEvent(OrderFulfilledEvent, "run-7", nil),
		NewEvent(AllocationCompletedEvent, "run-7", nil),
	})

	require.NoError(t, err)
	stored, err := store.ReadEvents("run-7", 1)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestAMQPPublisher_RoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	pub := newAMQPPublisher(ch, "healsync.dispatch")
	e := NewEvent(OutbreakDetectedEvent, "lab-1", OutbreakDetected{Disease: "dengue", RiskLevel: "HIGH"})

	require.NoError(t, pub.Publish(context.Background(), e))

	assert.Equal(t, "healsync.dispatch", ch.exchange)
	assert.Equal(t, OutbreakDetectedEvent, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, e.ID(), ch.msg.MessageId)

	var env map[string]any
	require.NoError(t, json.Unmarshal(ch.msg.Body, &env))
	assert.Equal(t, OutbreakDetectedEvent, env["type"])
	assert.Equal(t, "dengue", env["data"].(map[string]any)["disease"])

	require.NoError(t, pub.Close())
	assert.True(t, ch.closed)
}

func TestKafkaPublisher_KeysByStream(t *testing.T) {
	w := &fakeWriter{}
	pub := &KafkaPublisher{writer: w, topic: "events"}
	e := NewEvent(AllocationCompletedEvent, "run-42", nil)

	require.NoError(t, pub.Publish(context.Background(), e))
	require.Len(t, w.messages, 1)
	assert.Equal(t, "run-42", string(w.messages[0].Key))
	assert.Equal(t, "ce-type", w.messages[0].Headers[0].Key)
	assert.Equal(t, AllocationCompletedEvent, string(w.messages[0].Headers[0].Value))

	w.err = errors.New("leader not available")
	err := pub.Publish(context.Background(), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic events")
}

func TestAllocationEvents_FollowsProcessingOrder(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := entities.SupplyOrder{OrderID: "A", Sequence: 1, Timestamp: ts}
	second := entities.SupplyOrder{OrderID: "B", Sequence: 0, Timestamp: ts}
	result := &dto.AllocationResult{
		RunID:           "run-1",
		RankedOrders:    []entities.SupplyOrder{first, second},
		FulfilledOrders: []entities.AllocatedOrder{{SupplyOrder: first, Status: entities.Partial}},
		PendingOrders:   []entities.AllocatedOrder{{SupplyOrder: second, Status: entities.Pending}},
		Metrics:         dto.AllocationMetrics{TotalOrders: 2, FulfilledCount: 1, PendingCount: 1},
	}

	evts := AllocationEvents(result)

	require.Len(t, evts, 3)
	assert.Equal(t, OrderPartialEvent, evts[0].Type())
	assert.Equal(t, "A", evts[0].Data().(OrderOutcome).Order.OrderID)
	assert.Equal(t, OrderPendingEvent, evts[1].Type())
	assert.Equal(t, AllocationCompletedEvent, evts[2].Type())
	for _, e := range evts {
		assert.Equal(t, "run-1", e.StreamID())
	}
}

func TestOrderEventType(t *testing.T) {
	assert.Equal(t, OrderFulfilledEvent, OrderEventType(entities.Fulfilled))
	assert.Equal(t, OrderPartialEvent, OrderEventType(entities.Partial))
	assert.Equal(t, OrderPendingEvent, OrderEventType(entities.Pending))
}
