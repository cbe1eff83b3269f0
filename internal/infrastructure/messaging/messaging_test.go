package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	"github.com/xiebiao/cafearoma/internal/infrastructure/config"
	"github.com/xiebiao/cafearoma/pkg/circuitbreaker"
	"github.com/xiebiao/cafearoma/pkg/mq"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	msgs      []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	p.calls++
	return errors.New("broker down")
}

func (p *failingPublisher) Close() error { return nil }

func lowStockEvent() inventory.LowStockEvent {
	return inventory.LowStockEvent{
		SKU:        "CAF-RO-003",
		Name:       "Robusta Tolima",
		GrainType:  inventory.GrainRobusta,
		StockKg:    decimal.NewFromInt(4),
		MinStockKg: decimal.NewFromInt(10),
		OccurredAt: time.Now(),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, time.Second, zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), inventory.RoutingKeyLowStock, lowStockEvent()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "CAF-RO-003", string(msg.Key))
	assert.Equal(t, inventory.RoutingKeyLowStock, routingKeyOf(msg))
	assert.Contains(t, string(msg.Value), `"sku":"CAF-RO-003"`)

	// 没有PartitionKey时用路由键
	require.NoError(t, p.Publish(context.Background(), "misc", map[string]string{"a": "b"}))
	assert.Equal(t, "misc", string(w.msgs[1].Key))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := newKafkaPublisher(&fakeWriter{err: errors.New("no leader")}, time.Second, zap.NewNop())
	err := p.Publish(context.Background(), inventory.RoutingKeyLowStock, lowStockEvent())
	assert.ErrorContains(t, err, "no leader")
}

func TestKafkaConsumer_Consume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	header := func(key string) []kafka.Header {
		return []kafka.Header{{Key: headerRoutingKey, Value: []byte(key)}}
	}
	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Value: []byte(`{"sku":"A"}`), Headers: header(inventory.RoutingKeyLowStock)},
			{Value: []byte(`{}`), Headers: header("other.event")},
			{Value: []byte(`bad`), Headers: header(inventory.RoutingKeyLowStock)},
		},
	}
	c := newKafkaConsumer(reader, []string{inventory.RoutingKeyLowStock}, zap.NewNop())

	var handled []string
	err := c.Consume(ctx, func(ctx context.Context, routingKey string, body []byte) error {
		handled = append(handled, string(body))
		if string(body) == "bad" {
			return mq.ErrDiscard
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{`{"sku":"A"}`, "bad"}, handled)
	assert.Len(t, reader.committed, 3)
}

func TestKafkaConsumer_HandlerErrorStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs:   []kafka.Message{{Value: []byte(`{}`), Headers: []kafka.Header{{Key: headerRoutingKey, Value: []byte("k")}}}},
	}
	c := newKafkaConsumer(reader, []string{"k"}, zap.NewNop())

	err := c.Consume(ctx, func(ctx context.Context, routingKey string, body []byte) error {
		return errors.New("temporary")
	})
	assert.Error(t, err)
	assert.Empty(t, reader.committed)
}

func TestGuardedPublisher_OpensAfterFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	inner := &failingPublisher{}
	breaker := circuitbreaker.NewCircuitBreaker("publisher-test", circuitbreaker.Config{
		Timeout: time.Minute,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})
	p := NewGuardedPublisher(inner, "test", breaker, zap.New(core))
	ctx := context.Background()

	assert.Error(t, p.Publish(ctx, "k", "x"))
	assert.Error(t, p.Publish(ctx, "k", "x"))
	assert.Equal(t, circuitbreaker.StateOpen, p.Breaker().State())

	err := p.Publish(ctx, "k", "x")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 1, logs.FilterMessage("熔断器状态变化").Len())
}

func TestNewPublisher_Drivers(t *testing.T) {
	cfg := &config.Config{}
	cfg.Messaging.Driver = DriverLog
	p, err := NewPublisher(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, p.Publish(context.Background(), inventory.RoutingKeyLowStock, lowStockEvent()))
	assert.NoError(t, p.Close())

	cfg.Messaging.Driver = "nats"
	_, err = NewPublisher(cfg, zap.NewNop())
	assert.Error(t, err)

	_, err = NewConsumer(&config.Config{Messaging: config.MessagingConfig{Driver: DriverLog}}, nil, zap.NewNop())
	assert.Error(t, err)
}
