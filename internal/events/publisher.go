// Package events fans booking state changes out to interested sinks.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"parkshare/internal/domain"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	queueSize    = 256
	batchTimeout = 10 * time.Millisecond
)

// KafkaPublisher writes each booking event to a topic keyed by booking id.
// Notify only enqueues; a background goroutine does the writes, so a slow or
// unreachable broker never holds up a request. Failures are logged.
type KafkaPublisher struct {
	writer  messageWriter
	logger  *slog.Logger
	timeout time.Duration
	queue   chan kafka.Message
	done    chan struct{}
	once    sync.Once
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
	}
	return newKafkaPublisher(w, logger, 2*time.Second)
}

func newKafkaPublisher(w messageWriter, logger *slog.Logger, timeout time.Duration) *KafkaPublisher {
	p := &KafkaPublisher{
		writer:  w,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan kafka.Message, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *KafkaPublisher) Notify(_ context.Context, event domain.BookingEvent) {
	b, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("encode booking event", "error", err, "booking_id", event.BookingID)
		return
	}
	select {
	case p.queue <- kafka.Message{Key: []byte(event.BookingID), Value: b}:
	default:
		p.logger.Warn("kafka queue full, dropping booking event", "booking_id", event.BookingID, "type", event.Type)
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.logger.Warn("publish booking event failed", "error", err, "booking_id", string(msg.Key))
		}
		cancel()
	}
}

// Close stops accepting events, flushes what is queued and closes the writer.
// Notify must not be called after Close.
func (p *KafkaPublisher) Close() error {
	p.once.Do(func() { close(p.queue) })
	<-p.done
	return p.writer.Close()
}

type Notifier interface {
	Notify(ctx context.Context, event domain.BookingEvent)
}

// Multi delivers an event to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event domain.BookingEvent) {
	for _, n := range m {
		n.Notify(ctx, event)
	}
}

type Nop struct{}

func (Nop) Notify(context.Context, domain.BookingEvent) {}
