package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
	err    error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestProducer_PublishFlushesOnClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, 16)

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Publish(context.Background(), TypeOrderFinalized, "order-1", OrderFinalized{
			OrderID: "order-1",
			Status:  "Completed",
			PlanID:  1,
			Price:   1000,
		}))
	}
	p.Close()
	p.WaitClosed()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.True(t, w.closed)
	require.Len(t, w.msgs, 3)

	msg := w.msgs[0]
	assert.Equal(t, "order-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeOrderFinalized, string(msg.Headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, TypeOrderFinalized, env.Type)
	assert.NotEmpty(t, env.ID)

	var payload OrderFinalized
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "Completed", payload.Status)
	assert.Equal(t, int64(1000), payload.Price)
}

func TestProducer_PublishAfterClose(t *testing.T) {
	p := newProducer(&fakeWriter{}, 1)
	p.Close()
	p.Close()
	p.WaitClosed()

	err := p.Publish(context.Background(), TypeCDKRedeemed, "k", CDKRedeemed{PlanID: 1})
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestProducer_WriteErrorIsNotFatal(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, 4)

	require.NoError(t, p.Publish(context.Background(), TypeCDKRedeemed, "a", CDKRedeemed{PlanID: 1}))
	require.NoError(t, p.Publish(context.Background(), TypeCDKRedeemed, "b", CDKRedeemed{PlanID: 2}))
	p.Close()
	p.WaitClosed()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Len(t, w.msgs, 2)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), TypeCDKRedeemed, "k", nil))
}
