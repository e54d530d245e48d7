package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"gofun/internal/common"

	"github.com/segmentio/kafka-go"
)

type LogObserver struct{}

func NewLogObserver() *LogObserver {
	return &LogObserver{}
}

func (l *LogObserver) Name() string {
	return "log_observer"
}

func (l *LogObserver) Update(event common.EngagementEvent) error {
	log.Printf("Event %s fun=%d user=%d total=%d", event.Type, event.FunID, event.UserID, event.Total)
	return nil
}

// Publisher is the part of *nats.Conn the observer uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSObserver publishes every event on <prefix>.<event type>, e.g. gofun.fun.liked.
type NATSObserver struct {
	conn   Publisher
	prefix string
}

func NewNATSObserver(conn Publisher, prefix string) *NATSObserver {
	return &NATSObserver{conn: conn, prefix: prefix}
}

func (n *NATSObserver) Name() string {
	return "nats_observer"
}

func (n *NATSObserver) Update(event common.EngagementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	subject := string(event.Type)
	if n.prefix != "" {
		subject = n.prefix + "." + subject
	}
	if err := n.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// MessageWriter is the part of *kafka.Writer the observer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaObserver writes events keyed by fun ID, so one fun's events stay ordered.
type KafkaObserver struct {
	writer  MessageWriter
	timeout time.Duration
}

func NewKafkaObserver(writer MessageWriter) *KafkaObserver {
	return &KafkaObserver{writer: writer, timeout: 5 * time.Second}
}

func (k *KafkaObserver) Name() string {
	return "kafka_observer"
}

func (k *KafkaObserver) Update(event common.EngagementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.FunID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to kafka: %w", event.Type, err)
	}
	return nil
}
