package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rookgm/chinpay/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrProducerClosed is returned by Publish after Close
var ErrProducerClosed = errors.New("producer is closed")

// messageWriter is satisfied by *kafka.Writer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes envelopes to kafka topic from a background goroutine
type Producer struct {
	w       messageWriter
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewProducer creates producer for brokers and topic, buf is size of message queue
func NewProducer(brokers []string, topic string, buf int) *Producer {
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, buf)
}

func newProducer(w messageWriter, buf int) *Producer {
	p := &Producer{
		w:       w,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Producer) run() {
	defer close(p.closeCh)

	for m := range p.inbox {
		if err := p.w.WriteMessages(context.Background(), m); err != nil {
			logger.Log.Error("publish event", zap.String("key", string(m.Key)), zap.Error(err))
		}
	}
	if err := p.w.Close(); err != nil {
		logger.Log.Error("close kafka writer", zap.Error(err))
	}
}

// Publish enqueues event. Event is dropped with a warning when queue is full.
func (p *Producer) Publish(_ context.Context, eventType, key string, payload any) error {
	env, err := NewEnvelope(eventType, key, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrProducerClosed
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(eventType)},
		},
	}
	select {
	case p.inbox <- msg:
	default:
		logger.Log.Warn("event queue is full, event dropped",
			zap.String("type", eventType), zap.String("key", key))
	}

	return nil
}

// Close stops accepting events, queued events are still flushed
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

// WaitClosed waits until queued events are flushed and writer is closed
func (p *Producer) WaitClosed() { <-p.closeCh }
