package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const kafkaMaxFetchBytes = 10e6

var (
	ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")
	// ErrKafkaGroupRequired is returned by Consume without WithGroup.
	ErrKafkaGroupRequired = errors.New("messaging: kafka consumer group is required")
)

type KafkaConfig struct {
	Brokers []string
	// WriteTimeout bounds one publish. Zero keeps the kafka-go default.
	WriteTimeout time.Duration
}

// Kafka shares one writer across topics and opens a group reader per
// Consume call. Ack commits the offset. Nack leaves it for redelivery.
type Kafka struct {
	brokers []string
	writer  *kafka.Writer
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           cfg.WriteTimeout,
	}
	return &Kafka{brokers: cfg.Brokers, writer: w}, nil
}

func (k *Kafka) Close() error { return k.writer.Close() }

func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if destination == "" {
		return ErrDestinationRequired
	}

	headers := make([]kafka.Header, 0, len(msg.Headers))
	for key, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	err := k.writer.WriteMessages(ctx, kafka.Message{
		Topic:   destination,
		Key:     msg.Key,
		Value:   msg.Body,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("messaging: kafka publish %s: %w", destination, err)
	}
	return nil
}

// Consume returns when ctx is done or the reader fails, whichever comes
// first. Fetched but unprocessed messages stay uncommitted.
func (k *Kafka) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	co, err := prepare(source, handler, opts)
	if err != nil {
		return err
	}
	if co.group == "" {
		return ErrKafkaGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  co.group,
		Topic:    source,
		MaxBytes: kafkaMaxFetchBytes,
	})

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	fetched := make(chan kafka.Message)
	wait := workers(ctx, co.workers, fetched, func(m kafka.Message) {
		if err := process(ctx, DriverKafka, handler, &kafkaMessage{reader: reader, msg: m}, co.autoAck); err != nil {
			slog.WarnContext(ctx, "kafka commit failed", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "error", err)
		}
	})

	ferr := fetchLoop(ctx, reader, fetched)
	cancel()
	wait()

	cerr := reader.Close()
	if perr := parent.Err(); perr != nil {
		return errors.Join(perr, cerr)
	}
	return errors.Join(fmt.Errorf("messaging: kafka consume %s: %w", source, ferr), cerr)
}

func fetchLoop(ctx context.Context, r *kafka.Reader, out chan<- kafka.Message) error {
	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			return err
		}
		select {
		case out <- m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type kafkaMessage struct {
	settle
	reader *kafka.Reader
	msg    kafka.Message
}

func (m *kafkaMessage) Body() []byte   { return m.msg.Value }
func (m *kafkaMessage) Key() []byte    { return m.msg.Key }
func (m *kafkaMessage) Source() string { return m.msg.Topic }

func (m *kafkaMessage) Header(key string) string {
	for _, h := range m.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (m *kafkaMessage) Ack(ctx context.Context) error {
	if !m.first() {
		return nil
	}
	return m.reader.CommitMessages(ctx, m.msg)
}

func (m *kafkaMessage) Nack(context.Context) error {
	m.first()
	return nil
}
