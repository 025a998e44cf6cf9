package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error { return nil }

type memSequencer map[string]int64

func (m memSequencer) NextSequence(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, errors.New("partition key is required")
	}
	m[key]++
	return m[key], nil
}

func TestRabbitPublisherEnvelope(t *testing.T) {
	ch := &fakeChannel{}
	p := newRabbitPublisher(ch, memSequencer{})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	ev := CartItemAdded("req-1", CartItemPayload{UserID: 7, ProductID: 10, Quantity: 1, Price: "$19.99", Timestamp: now})
	require.NoError(t, p.Publish(context.Background(), ev))
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, ch.sent, 2)
	assert.Equal(t, EventsExchange, ch.sent[0].exchange)
	assert.Equal(t, CartItemAddedRoutingKey, ch.sent[0].key)
	assert.Equal(t, "application/json", ch.sent[0].msg.ContentType)

	var first, second Envelope
	require.NoError(t, json.Unmarshal(ch.sent[0].msg.Body, &first))
	require.NoError(t, json.Unmarshal(ch.sent[1].msg.Body, &second))

	assert.Equal(t, EventTypeCartItemAdded, first.EventName)
	assert.Equal(t, 1, first.EventVersion)
	assert.Equal(t, "7", first.PartitionKey)
	assert.Equal(t, "req-1", first.CorrelationID)
	assert.Equal(t, Producer, first.Producer)
	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, int64(2), second.Sequence)
	assert.NotEqual(t, first.EventID, second.EventID)
	assert.Equal(t, first.EventID, ch.sent[0].msg.MessageId)

	var payload CartItemPayload
	require.NoError(t, json.Unmarshal(first.Payload, &payload))
	assert.Equal(t, int64(10), payload.ProductID)
}

func TestRabbitPublisherSequencePerPartition(t *testing.T) {
	ch := &fakeChannel{}
	p := newRabbitPublisher(ch, memSequencer{})
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, WishlistItemAdded("", WishlistItemPayload{UserID: 2, ItemID: 1})))
	require.NoError(t, p.Publish(ctx, WishlistItemRemoved("", WishlistItemPayload{UserID: 3, ItemID: 2})))
	require.NoError(t, p.Publish(ctx, WishlistItemRemoved("", WishlistItemPayload{UserID: 2, ItemID: 1})))

	seqs := map[string][]int64{}
	for _, s := range ch.sent {
		var env Envelope
		require.NoError(t, json.Unmarshal(s.msg.Body, &env))
		seqs[env.PartitionKey] = append(seqs[env.PartitionKey], env.Sequence)
	}
	assert.Equal(t, []int64{1, 2}, seqs["2"])
	assert.Equal(t, []int64{1}, seqs["3"])
}

func TestRabbitPublisherErrors(t *testing.T) {
	t.Run("broker failure", func(t *testing.T) {
		boom := errors.New("channel closed")
		p := newRabbitPublisher(&fakeChannel{err: boom}, memSequencer{})
		err := p.Publish(context.Background(), UserRegistered("", UserRegisteredPayload{UserID: 4, Email: "a@b.c"}))
		require.ErrorIs(t, err, boom)
	})

	t.Run("missing partition", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newRabbitPublisher(ch, memSequencer{})
		err := p.Publish(context.Background(), Event{Name: "X", RoutingKey: "x.v1"})
		require.Error(t, err)
		assert.Empty(t, ch.sent)
	})
}

// slowSequencer hands out a sequence and then stalls, widening the gap
// between reservation and publish.
type slowSequencer struct {
	mu   sync.Mutex
	next int64
}

func (s *slowSequencer) NextSequence(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	s.next++
	n := s.next
	s.mu.Unlock()
	time.Sleep(time.Duration(20-n%20) * 100 * time.Microsecond)
	return n, nil
}

func TestRabbitPublisherConcurrentSequencesStayOrdered(t *testing.T) {
	ch := &fakeChannel{}
	p := newRabbitPublisher(ch, &slowSequencer{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev := CartItemAdded("", CartItemPayload{UserID: 7, ProductID: 10, Quantity: 1})
			assert.NoError(t, p.Publish(context.Background(), ev))
		}()
	}
	wg.Wait()

	require.Len(t, ch.sent, 20)
	for i, s := range ch.sent {
		var env Envelope
		require.NoError(t, json.Unmarshal(s.msg.Body, &env))
		assert.Equal(t, int64(i+1), env.Sequence)
	}
}

func TestBuildEnvelopeRejectsUnmarshalablePayload(t *testing.T) {
	_, err := BuildEnvelope(Event{Name: "X", PartitionKey: "1", Payload: make(chan int)}, 1, Producer, time.Now())
	require.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	require.NoError(t, NoopPublisher{}.Publish(context.Background(), Event{}))
}
