package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/valter-silva-au/todo/pkg/models"
)

const publishTimeout = 5 * time.Second

// messageWriter is the subset of *kafka.Writer used by ChangePublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ChangePublisher forwards task store changes to a Kafka topic. Messages are
// keyed by task ID, or by change kind for whole-collection changes.
type ChangePublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewChangePublisher creates a ChangePublisher writing to topic on brokers.
// The writer is asynchronous: WriteMessages only enqueues, so an unreachable
// broker never stalls the goroutine that mutated the store. Delivery errors
// are logged when the batch completes.
func NewChangePublisher(brokers []string, topic string, logger zerolog.Logger) *ChangePublisher {
	p := newChangePublisher(nil, logger)
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: publishTimeout,
		Async:        true,
		Completion:   p.logDelivery,
	}
	return p
}

func newChangePublisher(w messageWriter, logger zerolog.Logger) *ChangePublisher {
	return &ChangePublisher{
		writer: w,
		logger: logger.With().Str("component", "kafka").Logger(),
	}
}

// logDelivery is the async writer's completion callback.
func (p *ChangePublisher) logDelivery(messages []kafka.Message, err error) {
	if err != nil {
		p.logger.Warn().Err(err).Int("messages", len(messages)).Msg("failed to deliver changes")
		return
	}
	p.logger.Debug().Int("messages", len(messages)).Msg("delivered changes")
}

// changeMessage is the JSON value of a published message.
type changeMessage struct {
	Kind  models.ChangeKind `json:"kind"`
	Task  *models.Task      `json:"task,omitempty"`
	Count int               `json:"count"`
	At    time.Time         `json:"at"`
}

// Publish writes one change event.
func (p *ChangePublisher) Publish(ctx context.Context, event models.ChangeEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing kafka message: %w", err)
	}
	return nil
}

// Listener returns a store listener that publishes every change. Failures
// are logged and do not affect the mutation that triggered them.
func (p *ChangePublisher) Listener() func(models.ChangeEvent) {
	return func(event models.ChangeEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.Publish(ctx, event); err != nil {
			p.logger.Warn().Err(err).Str("kind", string(event.Kind)).Msg("failed to publish change")
		}
	}
}

// Close flushes pending messages and closes the writer.
func (p *ChangePublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(event models.ChangeEvent) (kafka.Message, error) {
	value, err := json.Marshal(changeMessage{
		Kind:  event.Kind,
		Task:  event.Task,
		Count: len(event.Tasks),
		At:    event.At,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshaling change event: %w", err)
	}

	key := string(event.Kind)
	if event.Task != nil {
		key = event.Task.ID
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.At,
	}, nil
}
